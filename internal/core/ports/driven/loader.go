package driven

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// DocumentLoader extracts page text from a corpus file.
type DocumentLoader interface {
	// Load returns the non-empty pages of the file in page order.
	Load(ctx context.Context, path string) ([]domain.Page, error)

	// Extensions lists the file extensions the loader handles, with leading dot.
	Extensions() []string
}

// TextSplitter cuts text into overlapping chunks.
type TextSplitter interface {
	Split(text string) ([]string, error)
}
