// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The query path is Router -> Classifier -> Retriever -> Synthesizer.
// None of these perform I/O directly; every provider call goes through
// a driven port and is bounded by a timeout.
package services
