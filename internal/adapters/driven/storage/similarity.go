// Package storage holds helpers shared by the passage store implementations.
package storage

import (
	"container/heap"
	"math"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// CosineSimilarity computes the cosine similarity of two vectors.
// Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK keeps the k best-scoring chunks offered to it.
// Ties keep the chunk offered first.
type TopK struct {
	k    int
	seq  int
	heap scoredHeap
}

// NewTopK creates a collector for the k closest chunks.
func NewTopK(k int) *TopK {
	return &TopK{k: k}
}

// Offer scores chunk against query and keeps it if it ranks in the top k.
func (t *TopK) Offer(query []float32, chunk domain.Chunk) {
	if t.k <= 0 {
		return
	}
	item := scoredItem{
		ScoredChunk: domain.ScoredChunk{Chunk: chunk, Score: CosineSimilarity(query, chunk.Embedding)},
		seq:         t.seq,
	}
	t.seq++

	if t.heap.Len() < t.k {
		heap.Push(&t.heap, item)
		return
	}
	if worse(t.heap[0], item) {
		t.heap[0] = item
		heap.Fix(&t.heap, 0)
	}
}

// Results returns the kept chunks, closest first.
func (t *TopK) Results() []domain.ScoredChunk {
	items := make([]scoredItem, len(t.heap))
	copy(items, t.heap)
	h := scoredHeap(items)

	out := make([]domain.ScoredChunk, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(scoredItem).ScoredChunk
	}
	return out
}

type scoredItem struct {
	domain.ScoredChunk
	seq int
}

// worse reports whether a ranks below b.
func worse(a, b scoredItem) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.seq > b.seq
}

// scoredHeap is a min-heap on rank, so the root is the weakest kept chunk.
type scoredHeap []scoredItem

func (h scoredHeap) Len() int           { return len(h) }
func (h scoredHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h scoredHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *scoredHeap) Push(x any) { *h = append(*h, x.(scoredItem)) }

func (h *scoredHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
