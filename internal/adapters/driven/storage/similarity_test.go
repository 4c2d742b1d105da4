package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTopK_OrdersByScore(t *testing.T) {
	query := []float32{1, 0}
	top := NewTopK(2)

	top.Offer(query, domain.Chunk{ID: "far", Embedding: []float32{0, 1}})
	top.Offer(query, domain.Chunk{ID: "near", Embedding: []float32{1, 0.1}})
	top.Offer(query, domain.Chunk{ID: "exact", Embedding: []float32{2, 0}})
	top.Offer(query, domain.Chunk{ID: "mid", Embedding: []float32{1, 1}})

	results := top.Results()

	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].Chunk.ID)
	assert.Equal(t, "near", results[1].Chunk.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestTopK_TiesKeepInsertionOrder(t *testing.T) {
	query := []float32{1, 0}
	top := NewTopK(3)
	for _, id := range []string{"a", "b", "c", "d"} {
		top.Offer(query, domain.Chunk{ID: id, Embedding: []float32{1, 0}})
	}

	results := top.Results()

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "b", results[1].Chunk.ID)
	assert.Equal(t, "c", results[2].Chunk.ID)
}

func TestTopK_FewerThanK(t *testing.T) {
	top := NewTopK(5)
	top.Offer([]float32{1}, domain.Chunk{ID: "only", Embedding: []float32{1}})

	assert.Len(t, top.Results(), 1)
	// Results does not drain the collector
	assert.Len(t, top.Results(), 1)
}

func TestTopK_ZeroK(t *testing.T) {
	top := NewTopK(0)
	top.Offer([]float32{1}, domain.Chunk{ID: "x", Embedding: []float32{1}})

	assert.Empty(t, top.Results())
}
