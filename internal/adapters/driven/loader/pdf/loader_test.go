package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

// writePDF builds a minimal PDF with one page per entry in texts.
// An empty entry yields a page without content.
func writePDF(t *testing.T, dir, name string, texts ...string) string {
	t.Helper()

	var objects []string
	pageCount := len(texts)
	fontObj := 3 + 2*pageCount

	kids := ""
	for i := range texts {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pageCount),
	)
	for i, text := range texts {
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.DocumentLoader = (*Loader)(nil)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().Extensions())
}

func TestLoad_PagesWithProvenance(t *testing.T) {
	path := writePDF(t, t.TempDir(), "lei-organica.pdf", "Art. 1 Curitiba", "", "Art. 2 Municipio")

	pages, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, pages, 2, "empty pages are skipped")
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 3, pages[1].Number)
	assert.Equal(t, "lei-organica.pdf", pages[0].Source)
	assert.Contains(t, pages[0].Text, "Art. 1")
	assert.Contains(t, pages[1].Text, "Municipio")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestLoad_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0600))

	_, err := New().Load(context.Background(), path)

	assert.Error(t, err)
}

func TestLoad_CancelledContext(t *testing.T) {
	path := writePDF(t, t.TempDir(), "lei.pdf", "Art. 1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Load(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}
