package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure Retriever implements the interfaces.
var (
	_ PassageRetriever             = (*Retriever)(nil)
	_ driving.PassageSearchService = (*Retriever)(nil)
)

// Retriever delegates passage lookup to a PassageIndex with a fixed k.
// It owns no ranking: the index order is returned as-is.
type Retriever struct {
	index   driven.PassageIndex
	k       int
	timeout time.Duration
}

// NewRetriever creates a retriever returning the top domain.RetrievalTopK
// passages. A zero timeout leaves calls bounded only by the caller's context.
func NewRetriever(index driven.PassageIndex, timeout time.Duration) *Retriever {
	return &Retriever{
		index:   index,
		k:       domain.RetrievalTopK,
		timeout: timeout,
	}
}

// Retrieve returns the passages closest to question.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.Passage, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	passages, err := r.index.Search(ctx, question, r.k)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}
	logger.Debug("Retrieved %d passages (k=%d)", len(passages), r.k)
	return passages, nil
}
