// Package domain defines the core business entities for Vademecum.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TriageResult: The classified intent of a user message
//   - Passage: A retrieved unit of corpus text with provenance
//   - AnswerResult: The outcome of answer synthesis
//   - AgentState: The record threaded through one routed query
//   - Document, Chunk: Ingested corpus files and their indexed pieces
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
