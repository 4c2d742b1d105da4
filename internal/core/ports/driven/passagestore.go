package driven

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// PassageStore persists ingested documents, their chunks and chunk vectors.
// Backed by SQLite for durable storage.
type PassageStore interface {
	// ReplaceDocument stores a document and swaps its chunks atomically.
	// Any chunks previously stored for the document are removed.
	ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindDocumentByPath retrieves the document ingested from path.
	// Returns domain.ErrNotFound when none exists.
	FindDocumentByPath(ctx context.Context, path string) (*domain.Document, error)

	// ListDocuments returns all ingested documents ordered by name.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// SearchSimilar returns the k chunks closest to the query vector,
	// ordered by descending similarity.
	SearchSimilar(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Stats summarises the store contents.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
