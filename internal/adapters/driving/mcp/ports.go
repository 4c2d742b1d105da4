package mcp

import (
	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers routed questions.
	Assistant driving.AssistantService

	// Search exposes raw passage retrieval. Optional.
	Search driving.PassageSearchService

	// Ingest lists the ingested documents. Optional.
	Ingest driving.IngestService

	// CorpusName names the indexed laws in tool descriptions.
	// Empty uses domain.DefaultCorpusName.
	CorpusName string
}

func (p *Ports) corpusName() string {
	if p.CorpusName == "" {
		return domain.DefaultCorpusName
	}
	return p.CorpusName
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
