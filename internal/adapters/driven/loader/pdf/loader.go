// Package pdf loads corpus PDFs page by page using github.com/ledongthuc/pdf.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts plain text from each page of a PDF file.
type Loader struct{}

// New creates a PDF loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the handled file extensions.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load returns the non-empty pages of the PDF at path. Page numbers are 1-based
// and the page source is the file name.
func (l *Loader) Load(ctx context.Context, path string) (pages []domain.Page, err error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	// The reader panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("%w: read pdf %s: %v", domain.ErrInvalidInput, filepath.Base(path), rec)
		}
	}()

	source := filepath.Base(path)
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, source, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{Source: source, Number: i, Text: text})
	}

	return pages, nil
}
