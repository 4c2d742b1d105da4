// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.vademecum.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt templates
package file
