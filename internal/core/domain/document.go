package domain

import "time"

// Document represents an ingested corpus file.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the display name used as passage provenance (file base name).
	Name string

	// Path is the resolved file path the document was loaded from.
	Path string

	// Pages is the number of pages loaded.
	Pages int

	// Chunks is the number of chunks indexed for this document.
	Chunks int

	// IngestedAt is when the document was last ingested.
	IngestedAt time.Time
}

// Page is one page of extracted document text.
type Page struct {
	// Source is the document name.
	Source string

	// Number is the 1-based page number.
	Number int

	// Text is the plain text extracted from the page.
	Text string
}

// Chunk represents an indexed unit of a document page.
// Pages are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Source is the document name, copied for provenance.
	Source string

	// Page is the 1-based page number the chunk was cut from.
	Page int

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// Passage returns the retrieval view of the chunk.
func (c Chunk) Passage() Passage {
	return Passage{
		Content: c.Content,
		Source:  c.Source,
		Page:    c.Page,
	}
}

// ScoredChunk is a chunk matched by similarity search.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity to the query, higher is closer.
	Score float64
}

// IndexStats summarises the passage store.
type IndexStats struct {
	Documents  int
	Chunks     int
	Dimensions int
}
