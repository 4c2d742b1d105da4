package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

// mockGenerator returns a fixed response and records every prompt and chat.
type mockGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	chats    [][]driven.ChatMessage
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) Chat(_ context.Context, messages []driven.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats = append(m.chats, messages)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts) + len(m.chats)
}

// mockLLMService blocks until ctx is done when block is set.
type mockLLMService struct {
	response     string
	err          error
	block        bool
	lastOpts     driven.GenerateOptions
	lastChatOpts driven.ChatOptions
	lastMessages []driven.ChatMessage
}

func (m *mockLLMService) Generate(ctx context.Context, _ string, opts driven.GenerateOptions) (string, error) {
	m.lastOpts = opts
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	m.lastChatOpts = opts
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string { return "mock-model" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockIndex returns fixed passages.
type mockIndex struct {
	passages []domain.Passage
	err      error
	block    bool
	lastK    int
	queries  []string
}

func (m *mockIndex) Search(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	m.lastK = k
	m.queries = append(m.queries, query)
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

type mockTriager struct {
	result domain.TriageResult
}

func (m *mockTriager) Classify(_ context.Context, _ string) domain.TriageResult {
	return m.result
}

type mockRetriever struct {
	passages []domain.Passage
	err      error
	calls    int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string) ([]domain.Passage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

type mockSynthesizer struct {
	result domain.AnswerResult
	calls  int
}

func (m *mockSynthesizer) Synthesize(_ context.Context, _ string, _ []domain.Passage) domain.AnswerResult {
	m.calls++
	return m.result
}

// mockPromptStore serves templates from a map.
type mockPromptStore struct {
	templates map[string]string
	err       error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.templates[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockLoader serves pages per file base name or fails for listed names.
type mockLoader struct {
	pages map[string][]domain.Page
	fail  map[string]error
}

func (m *mockLoader) Load(_ context.Context, path string) ([]domain.Page, error) {
	name := filepath.Base(path)
	if err, ok := m.fail[name]; ok {
		return nil, err
	}
	return m.pages[name], nil
}

func (m *mockLoader) Extensions() []string { return []string{".pdf"} }

// lineSplitter splits text on newlines.
type lineSplitter struct{}

func (lineSplitter) Split(text string) ([]string, error) {
	return strings.Split(text, "\n"), nil
}

// mockEmbedder returns a vector derived from text length.
type mockEmbedder struct {
	mu      sync.Mutex
	err     error
	batches [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, texts)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockValidator records calls and returns err.
type mockValidator struct {
	err        error
	embedCalls int
	llmCalls   int
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.embedCalls++
	return m.err
}

func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.llmCalls++
	return m.err
}

var errMock = errors.New("mock failure")

// longText returns a passage body comfortably above the usable threshold.
func longText(prefix string) string {
	return prefix + " " + strings.Repeat("conteúdo normativo relevante ", 4)
}
