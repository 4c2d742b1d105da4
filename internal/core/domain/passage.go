package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinPassageLength is the trimmed length in characters a passage must exceed to be
	// used as answer context.
	MinPassageLength = 50

	// MinAnswerLength is the trimmed length below which a generated answer
	// is rejected.
	MinAnswerLength = 30

	// RetrievalTopK is the number of passages fetched per question.
	RetrievalTopK = 5
)

// Passage is a retrieved unit of corpus content with its provenance.
type Passage struct {
	// Content is the text body.
	Content string `json:"content"`

	// Source is the document name the passage came from.
	Source string `json:"source"`

	// Page is the 1-based page number within Source. Zero when unknown.
	Page int `json:"page"`
}

// Usable reports whether the passage carries enough text to be used as context.
func (p Passage) Usable() bool {
	return utf8.RuneCountInString(strings.TrimSpace(p.Content)) > MinPassageLength
}

// UsablePassages returns the passages that pass Usable, preserving order.
// The result is never nil.
func UsablePassages(passages []Passage) []Passage {
	out := make([]Passage, 0, len(passages))
	for _, p := range passages {
		if p.Usable() {
			out = append(out, p)
		}
	}
	return out
}

// AnswerResult is the outcome of answer synthesis.
type AnswerResult struct {
	// Text is the answer body. It may be a canned message.
	Text string `json:"text"`

	// Citations are the passages the answer was derived from.
	Citations []Passage `json:"citations"`

	// Grounded is true only when Text was synthesized from usable passages
	// and passed every quality gate.
	Grounded bool `json:"grounded"`
}
