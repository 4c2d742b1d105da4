// Package mcp provides an MCP (Model Context Protocol) server adapter for vademecum.
// It lets AI assistants ask questions about the corpus and read the raw passages
// the answers are grounded on.
package mcp

import "errors"

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("mcp: assistant service is required")
