package driven

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// PassageIndex answers nearest-neighbour lookups over the indexed corpus.
// Results are ordered closest first; callers must not reorder them.
type PassageIndex interface {
	Search(ctx context.Context, query string, k int) ([]domain.Passage, error)
}
