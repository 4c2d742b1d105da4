// Package semantic answers passage lookups by embedding the query and
// ranking stored chunks by cosine similarity.
package semantic

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.PassageIndex = (*Index)(nil)

// Index is a PassageIndex over an embedding service and a passage store.
// Both must use the same embedding model that built the store.
type Index struct {
	embedder driven.EmbeddingService
	store    driven.PassageStore
}

// New creates a semantic index.
func New(embedder driven.EmbeddingService, store driven.PassageStore) *Index {
	return &Index{embedder: embedder, store: store}
}

// Search returns up to k passages closest to query, closest first.
func (i *Index) Search(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	if i.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	stats, err := i.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	if stats.Chunks == 0 {
		return nil, fmt.Errorf("%w: run 'vademecum ingest' first", domain.ErrIndexEmpty)
	}

	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := i.store.SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	passages := make([]domain.Passage, len(scored))
	for n, sc := range scored {
		passages[n] = sc.Chunk.Passage()
		logger.Debug("  %d. %s p.%d score=%.4f", n+1, sc.Chunk.Source, sc.Chunk.Page, sc.Score)
	}
	return passages, nil
}
