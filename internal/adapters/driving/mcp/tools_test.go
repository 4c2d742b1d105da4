package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the routed state", func(t *testing.T) {
		assistant := &mockAssistantService{state: domain.AgentState{
			Triage: domain.TriageResult{
				Decision:      domain.DecisionAutoResolve,
				Urgency:       domain.UrgencyLow,
				MissingFields: []string{},
			},
			Answer:      "O Art. 15 trata do zoneamento urbano.",
			Citations:   []domain.Passage{{Content: "Art. 15 ...", Source: "lei.pdf", Page: 7}},
			Grounded:    true,
			FinalAction: domain.StateAutoResolve,
		}}
		server, err := NewServer(&Ports{Assistant: assistant})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "  Qual o artigo sobre zoneamento urbano? "})

		require.NoError(t, err)
		assert.Equal(t, []string{"Qual o artigo sobre zoneamento urbano?"}, assistant.messages)
		assert.Equal(t, "AUTO_RESOLVE", output.Decision)
		assert.Equal(t, "LOW", output.Urgency)
		assert.Equal(t, "AUTO_RESOLVE", output.FinalAction)
		assert.True(t, output.Grounded)
		require.Len(t, output.Citations, 1)
		assert.Equal(t, PassageOutput{Source: "lei.pdf", Page: 7, Content: "Art. 15 ..."}, output.Citations[0])
	})

	t.Run("nil slices become empty", func(t *testing.T) {
		server, err := NewServer(&Ports{Assistant: &mockAssistantService{}})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "oi"})

		require.NoError(t, err)
		assert.NotNil(t, output.MissingFields)
		assert.NotNil(t, output.Citations)
	})

	t.Run("blank question is rejected", func(t *testing.T) {
		assistant := &mockAssistantService{}
		server, err := NewServer(&Ports{Assistant: assistant})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "   "})

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, assistant.messages)
	})
}

func TestServer_handleSearchPassages(t *testing.T) {
	ctx := context.Background()

	t.Run("returns passages in order", func(t *testing.T) {
		search := &mockSearchService{passages: []domain.Passage{
			{Content: "primeiro", Source: "a.pdf", Page: 1},
			{Content: "segundo", Source: "b.pdf", Page: 3},
		}}
		server, err := NewServer(&Ports{Assistant: &mockAssistantService{}, Search: search})
		require.NoError(t, err)

		_, output, err := server.handleSearchPassages(ctx, nil, SearchPassagesInput{Query: "zoneamento"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "a.pdf", output.Passages[0].Source)
		assert.Equal(t, 3, output.Passages[1].Page)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Assistant: &mockAssistantService{}, Search: search})
		require.NoError(t, err)

		_, _, err = server.handleSearchPassages(ctx, nil, SearchPassagesInput{Query: "zoneamento"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})

	t.Run("unavailable without search port", func(t *testing.T) {
		server, err := NewServer(&Ports{Assistant: &mockAssistantService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchPassages(ctx, nil, SearchPassagesInput{Query: "zoneamento"})

		require.Error(t, err)
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Assistant: &mockAssistantService{}, Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearchPassages(ctx, nil, SearchPassagesInput{})

		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
