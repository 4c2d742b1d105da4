package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

func TestBoundGenerator_PassesBoundOptions(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	opts := driven.GenerateOptions{Temperature: 0, MaxTokens: 256}
	gen := NewBoundGenerator(llm, opts, 0)

	out, err := gen.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, opts, llm.lastOpts)
	assert.InDelta(t, 0.0, gen.Temperature(), 1e-9)
}

func TestBoundGenerator_SharedServiceKeepsOwnOptions(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	triage := NewBoundGenerator(llm, driven.GenerateOptions{Temperature: 0}, 0)
	answer := NewBoundGenerator(llm, driven.GenerateOptions{Temperature: 1}, 0)

	_, _ = answer.Generate(context.Background(), "a")
	assert.InDelta(t, 1.0, llm.lastOpts.Temperature, 1e-9)

	_, _ = triage.Generate(context.Background(), "t")
	assert.InDelta(t, 0.0, llm.lastOpts.Temperature, 1e-9)
}

func TestBoundGenerator_Timeout(t *testing.T) {
	gen := NewBoundGenerator(&mockLLMService{block: true}, driven.GenerateOptions{}, 20*time.Millisecond)

	start := time.Now()
	_, err := gen.Generate(context.Background(), "prompt")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBoundGenerator_ZeroTimeoutUsesCallerContext(t *testing.T) {
	gen := NewBoundGenerator(&mockLLMService{block: true}, driven.GenerateOptions{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gen.Generate(ctx, "prompt")

	require.ErrorIs(t, err, context.Canceled)
}

func TestBoundGenerator_PropagatesError(t *testing.T) {
	gen := NewBoundGenerator(&mockLLMService{err: errMock}, driven.GenerateOptions{}, time.Second)

	_, err := gen.Generate(context.Background(), "prompt")

	require.ErrorIs(t, err, errMock)
}

func TestBoundGenerator_ChatPassesRolesAndOptions(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	gen := NewBoundGenerator(llm, driven.GenerateOptions{Temperature: 0.2, MaxTokens: 128, StopWords: []string{"\n"}}, 0)
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "sys"},
		{Role: driven.RoleUser, Content: "q"},
	}

	out, err := gen.Chat(context.Background(), messages)

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, messages, llm.lastMessages)
	assert.Equal(t, driven.ChatOptions{Temperature: 0.2, MaxTokens: 128}, llm.lastChatOpts)
}

func TestBoundGenerator_ChatTimeout(t *testing.T) {
	gen := NewBoundGenerator(&mockLLMService{block: true}, driven.GenerateOptions{}, 20*time.Millisecond)

	_, err := gen.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}})

	require.ErrorIs(t, err, context.DeadlineExceeded)
}
