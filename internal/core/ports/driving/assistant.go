package driving

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// AssistantService answers questions about the corpus.
// It is stateless: no session is retained between calls.
type AssistantService interface {
	// AnswerQuery routes a message through triage and, when appropriate,
	// retrieval and synthesis. It always returns a complete state.
	AnswerQuery(ctx context.Context, message string) domain.AgentState
}

// PassageSearchService exposes raw passage retrieval to external actors.
type PassageSearchService interface {
	// Retrieve returns the top passages for a question, closest first.
	Retrieve(ctx context.Context, question string) ([]domain.Passage, error)
}
