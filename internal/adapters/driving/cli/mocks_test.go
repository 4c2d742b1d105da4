package cli

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
)

type mockAssistantService struct {
	mu       sync.Mutex
	state    domain.AgentState
	messages []string
}

func (m *mockAssistantService) AnswerQuery(_ context.Context, message string) domain.AgentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	state := m.state
	state.Message = message
	return state
}

type mockSearchService struct {
	passages []domain.Passage
	err      error
	queries  []string
}

func (m *mockSearchService) Retrieve(_ context.Context, question string) ([]domain.Passage, error) {
	m.queries = append(m.queries, question)
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

type mockIngestService struct {
	docs    []domain.Document
	report  *driving.IngestReport
	events  []driving.IngestEvent
	err     error
	paths   []string
	removed []string
}

func (m *mockIngestService) Ingest(
	_ context.Context, paths []string, progress func(driving.IngestEvent),
) (*driving.IngestReport, error) {
	m.paths = paths
	for _, e := range m.events {
		progress(e)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockIngestService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockIngestService) Remove(_ context.Context, id string) error {
	for _, d := range m.docs {
		if d.ID == id {
			m.removed = append(m.removed, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockIngestService) Stats(_ context.Context) (domain.IndexStats, error) {
	stats := domain.IndexStats{Documents: len(m.docs), Dimensions: 384}
	for _, d := range m.docs {
		stats.Chunks += d.Chunks
	}
	return stats, nil
}

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setKey      string
	setValue    string
	llm         domain.AIProvider
	llmModel    string
	llmKey      string
	embedding   domain.AIProvider
	embedModel  string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, _ string) error {
	m.embedding, m.embedModel = provider, model
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llm, m.llmModel, m.llmKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetValue(key, value string) error {
	if key == "unknown.key" {
		return errors.New("unknown configuration key")
	}
	m.setKey, m.setValue = key, value
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	assistant *mockAssistantService
	search    *mockSearchService
	ingest    *mockIngestService
	settings  *mockSettingsService
}

func newTestServices() *testServices {
	citation := domain.Passage{
		Content: "Art. 15 - O zoneamento urbano será definido por lei municipal específica.",
		Source:  "lei_organica.pdf",
		Page:    7,
	}
	return &testServices{
		assistant: &mockAssistantService{state: domain.AgentState{
			Triage: domain.TriageResult{
				Decision:      domain.DecisionAutoResolve,
				Urgency:       domain.UrgencyLow,
				MissingFields: []string{},
			},
			Answer:      "Conforme o Art. 15, o zoneamento urbano é definido por lei específica.",
			Citations:   []domain.Passage{citation},
			Grounded:    true,
			FinalAction: domain.StateAutoResolve,
			Path:        []domain.RouteState{domain.StateTriage, domain.StateAutoResolve, domain.StateEnd},
		}},
		search: &mockSearchService{passages: []domain.Passage{citation}},
		ingest: &mockIngestService{
			docs: []domain.Document{{
				ID:         "doc-1",
				Name:       "lei_organica.pdf",
				Path:       "/corpus/lei_organica.pdf",
				Pages:      12,
				Chunks:     40,
				IngestedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			}},
			report: &driving.IngestReport{
				Files:  []string{"/corpus/lei_organica.pdf"},
				Failed: map[string]error{},
				Pages:  12,
				Chunks: 40,
			},
		},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
}

// setupTestServices installs mock services and returns a restore func.
func setupTestServices() func() {
	_, cleanup := setupTestServicesWith(newTestServices())
	return cleanup
}

func setupTestServicesWith(ts *testServices) (*testServices, func()) {
	SetServices(Services{
		Assistant: ts.assistant,
		Search:    ts.search,
		Ingest:    ts.ingest,
		Settings:  ts.settings,
		Models: ModelInfo{
			LLMProvider:       "ollama",
			LLMModel:          "llama3.2",
			EmbeddingProvider: "ollama",
			EmbeddingModel:    "all-minilm",
		},
	})
	return ts, func() {
		SetServices(Services{})
		askJSON = false
		searchJSON = false
	}
}
