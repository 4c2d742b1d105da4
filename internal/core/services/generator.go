package services

import (
	"context"
	"time"

	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

// Ensure BoundGenerator implements the interface.
var _ driven.TextGenerator = (*BoundGenerator)(nil)

// BoundGenerator binds an LLMService to fixed generation options and a
// per-call timeout. Several generators may share one LLMService.
type BoundGenerator struct {
	llm     driven.LLMService
	opts    driven.GenerateOptions
	timeout time.Duration
}

// NewBoundGenerator creates a generator over llm. A zero timeout leaves
// calls bounded only by the caller's context.
func NewBoundGenerator(llm driven.LLMService, opts driven.GenerateOptions, timeout time.Duration) *BoundGenerator {
	return &BoundGenerator{
		llm:     llm,
		opts:    opts,
		timeout: timeout,
	}
}

// Generate runs one completion with the bound options.
func (g *BoundGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.llm.Generate(ctx, prompt, g.opts)
}

// Chat runs one role-tagged completion with the bound options.
// Stop words do not apply to chat requests.
func (g *BoundGenerator) Chat(ctx context.Context, messages []driven.ChatMessage) (string, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
}

func (g *BoundGenerator) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return ctx, func() {}
}

// Temperature returns the bound sampling temperature.
func (g *BoundGenerator) Temperature() float64 {
	return g.opts.Temperature
}
