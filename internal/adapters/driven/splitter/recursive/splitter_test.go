package recursive

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultChunkSize, s.ChunkSize())
	assert.Equal(t, DefaultChunkOverlap, s.Overlap())
}

func TestNew_Options(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		wantSize    int
		wantOverlap int
	}{
		{"custom", []Option{WithChunkSize(500), WithOverlap(50)}, 500, 50},
		{"ignores non-positive size", []Option{WithChunkSize(0)}, DefaultChunkSize, DefaultChunkOverlap},
		{"ignores negative overlap", []Option{WithOverlap(-1)}, DefaultChunkSize, DefaultChunkOverlap},
		{"clamps overlap to a quarter", []Option{WithChunkSize(100), WithOverlap(100)}, 100, 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(tc.opts...)
			assert.Equal(t, tc.wantSize, s.ChunkSize())
			assert.Equal(t, tc.wantOverlap, s.Overlap())
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	chunks, err := New().Split("   \n\n ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ShortTextIsOneChunk(t *testing.T) {
	text := "Art. 1º O Município de Curitiba integra a República Federativa do Brasil."

	chunks, err := New().Split(text)

	require.NoError(t, err)
	assert.Equal(t, []string{text}, chunks)
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	paragraph := strings.Repeat("A Câmara Municipal exerce a função legislativa. ", 10)
	text := strings.Join([]string{paragraph, paragraph, paragraph, paragraph}, "\n\n")

	chunks, err := New(WithChunkSize(300), WithOverlap(60)).Split(text)

	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 300)
		assert.Equal(t, strings.TrimSpace(c), c)
	}
}
