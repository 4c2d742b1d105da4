package mcp

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
)

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	state    domain.AgentState
	messages []string
}

func (m *mockAssistantService) AnswerQuery(_ context.Context, message string) domain.AgentState {
	m.messages = append(m.messages, message)
	state := m.state
	state.Message = message
	return state
}

// mockSearchService is a mock implementation of driving.PassageSearchService.
type mockSearchService struct {
	passages []domain.Passage
	err      error
}

func (m *mockSearchService) Retrieve(_ context.Context, _ string) ([]domain.Passage, error) {
	return m.passages, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	documents []domain.Document
	err       error
}

func (m *mockIngestService) Ingest(
	_ context.Context, _ []string, _ func(driving.IngestEvent),
) (*driving.IngestReport, error) {
	return &driving.IngestReport{}, m.err
}

func (m *mockIngestService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockIngestService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIngestService) Stats(_ context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{Documents: len(m.documents)}, m.err
}
