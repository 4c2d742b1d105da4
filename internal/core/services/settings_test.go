package services

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vademecum/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vademecum/internal/core/domain"
)

const testGoogleKey = "AIzaSyTest-0123456789"

// newTestSettings returns a settings service over an in-memory store and a fixed environment.
func newTestSettings(env map[string]string, seed ...map[string]any) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore(seed...)
	service := NewSettingsService(store, nil)
	service.SetEnvLookup(func(key string) string { return env[key] })
	return service, store
}

func TestNewSettingsService(t *testing.T) {
	service, _ := newTestSettings(nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettings(nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
	assert.Zero(t, settings.LLM.RequestsPerMinute)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "all-minilm", settings.Embedding.Model)
	assert.Equal(t, defaults.Assistant, settings.Assistant)
	assert.Equal(t, defaults.Ingest, settings.Ingest)
}

func TestSettingsService_Get_DetectsGoogleKey(t *testing.T) {
	service, _ := newTestSettings(map[string]string{EnvGoogleAPIKey: "  " + testGoogleKey + " "})

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", settings.LLM.Model)
	assert.Equal(t, testGoogleKey, settings.LLM.APIKey)
	assert.Equal(t, 15, settings.LLM.RequestsPerMinute)
	assert.Empty(t, settings.LLM.BaseURL)
	assert.Equal(t, domain.AIProviderGemini, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-004", settings.Embedding.Model)
	assert.Equal(t, testGoogleKey, settings.Embedding.APIKey)
}

func TestSettingsService_Get_IgnoresUnusableGoogleKey(t *testing.T) {
	for _, key := range []string{"", "sua_chave_api_aqui", "short", "   "} {
		service, _ := newTestSettings(map[string]string{EnvGoogleAPIKey: key})

		settings, err := service.Get()

		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider, key)
		assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider, key)
	}
}

func TestSettingsService_Get_StoredValuesWin(t *testing.T) {
	service, _ := newTestSettings(
		map[string]string{EnvGoogleAPIKey: testGoogleKey, EnvOpenAIAPIKey: "sk-env"},
		map[string]any{
			"llm.provider":                  "openai",
			"llm.model":                     "gpt-4o",
			"embedding.provider":            "ollama",
			"assistant.corpus_name":         "Leis de Teste",
			"assistant.triage_temperature":  0.2,
			"assistant.llm_timeout_seconds": 5,
			"ingest.chunk_size":             800,
		},
	)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-env", settings.LLM.APIKey)
	assert.Zero(t, settings.LLM.RequestsPerMinute)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "Leis de Teste", settings.Assistant.CorpusName)
	assert.InDelta(t, 0.2, settings.Assistant.TriageTemperature, 1e-9)
	assert.Equal(t, 5*time.Second, settings.Assistant.LLMTimeout)
	assert.Equal(t, 800, settings.Ingest.ChunkSize)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	service, _ := newTestSettings(nil, map[string]any{
		"llm.provider":       "invalid_provider",
		"embedding.provider": "invalid_provider",
	})

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
}

func TestSettingsService_Get_OllamaHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", "http://localhost:11434"},
		{"gpu-box:11434", "http://gpu-box:11434"},
		{"https://ollama.example.com", "https://ollama.example.com"},
	}
	for _, tt := range tests {
		service, _ := newTestSettings(map[string]string{EnvOllamaHost: tt.host})

		settings, err := service.Get()

		require.NoError(t, err)
		assert.Equal(t, tt.want, settings.LLM.BaseURL, tt.host)
		assert.Equal(t, tt.want, settings.Embedding.BaseURL, tt.host)
	}
}

func TestSettingsService_Save(t *testing.T) {
	service, store := newTestSettings(nil)

	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderAnthropic,
		Model:    "claude-3-5-haiku-latest",
		APIKey:   "sk-ant-file",
	}
	settings.Assistant.AnswerTemperature = 0.7
	settings.Assistant.RetrievalTimeout = 12 * time.Second

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, "sk-ant-file", store.GetString("llm.api_key"))
	assert.Equal(t, 12, store.GetInt("assistant.retrieval_timeout_seconds"))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, loaded.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", loaded.LLM.Model)
	assert.InDelta(t, 0.7, loaded.Assistant.AnswerTemperature, 1e-9)
	assert.Equal(t, 12*time.Second, loaded.Assistant.RetrievalTimeout)
}

func TestSettingsService_Save_SkipsEnvironmentKeys(t *testing.T) {
	service, store := newTestSettings(map[string]string{EnvGoogleAPIKey: testGoogleKey})

	settings, err := service.Get()
	require.NoError(t, err)
	require.NoError(t, service.Save(settings))

	_, exists := store.Get("llm.api_key")
	assert.False(t, exists)
	_, exists = store.Get("embedding.api_key")
	assert.False(t, exists)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	service, store := newTestSettings(map[string]string{EnvOpenAIAPIKey: "sk-env"})

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "", ""))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
	_, exists := store.Get("llm.api_key")
	assert.False(t, exists)
}

func TestSettingsService_SetLLMProvider_Errors(t *testing.T) {
	service, _ := newTestSettings(nil)

	err := service.SetLLMProvider(domain.AIProvider("bogus"), "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.SetLLMProvider(domain.AIProviderAnthropic, "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsService_SetLLMProvider_Gemini(t *testing.T) {
	service, store := newTestSettings(nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderGemini, "gemini-1.5-pro", "explicit-key-value"))

	assert.Equal(t, "gemini-1.5-pro", store.GetString("llm.model"))
	assert.Equal(t, "explicit-key-value", store.GetString("llm.api_key"))
	assert.Equal(t, 15, store.GetInt("llm.requests_per_minute"))
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	service, store := newTestSettings(nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "nomic-embed-text", ""))
	assert.Equal(t, "nomic-embed-text", store.GetString("embedding.model"))

	err := service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "does not support embeddings")

	err = service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetValue(t *testing.T) {
	service, store := newTestSettings(nil)

	require.NoError(t, service.SetValue("assistant.answer_temperature", " 0.5 "))
	assert.InDelta(t, 0.5, store.GetFloat("assistant.answer_temperature"), 1e-9)

	require.NoError(t, service.SetValue("llm.provider", "gemini"))
	assert.Equal(t, "gemini", store.GetString("llm.provider"))

	require.NoError(t, service.SetValue("ingest.batch_size", "32"))
	assert.Equal(t, 32, store.GetInt("ingest.batch_size"))

	require.NoError(t, service.SetValue("assistant.corpus_name", "Leis de Teste"))
	assert.Equal(t, "Leis de Teste", store.GetString("assistant.corpus_name"))
}

func TestSettingsService_SetValue_Rejects(t *testing.T) {
	service, _ := newTestSettings(nil)

	tests := []struct {
		key   string
		value string
	}{
		{"unknown.key", "x"},
		{"llm.provider", "bogus"},
		{"embedding.provider", "anthropic"},
		{"assistant.triage_temperature", "quente"},
		{"assistant.triage_temperature", "2.5"},
		{"ingest.chunk_size", "-1"},
		{"ingest.chunk_overlap", "1000"},
		{"ingest.chunk_size", "150"},
	}
	for _, tt := range tests {
		err := service.SetValue(tt.key, tt.value)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%s=%s", tt.key, tt.value)
	}
}

func TestSettingsService_Validate(t *testing.T) {
	service, _ := newTestSettings(nil)
	require.NoError(t, service.Validate())

	noKey, _ := newTestSettings(nil, map[string]any{"llm.provider": "gemini"})
	require.ErrorIs(t, noKey.Validate(), domain.ErrLLMUnavailable)

	noEmbedKey, _ := newTestSettings(nil, map[string]any{"embedding.provider": "openai"})
	require.ErrorIs(t, noEmbedKey.Validate(), domain.ErrEmbeddingUnavailable)

	badChunks, _ := newTestSettings(nil, map[string]any{"ingest.chunk_overlap": 2000})
	require.ErrorIs(t, badChunks.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_ValidateConfig(t *testing.T) {
	service, _ := newTestSettings(nil)
	require.NoError(t, service.ValidateLLMConfig())
	require.NoError(t, service.ValidateEmbeddingConfig())

	validator := &mockValidator{err: domain.ErrLLMUnavailable}
	withValidator := NewSettingsService(memory.NewConfigStore(), validator)

	require.ErrorIs(t, withValidator.ValidateLLMConfig(), domain.ErrLLMUnavailable)
	require.Error(t, withValidator.ValidateEmbeddingConfig())
	assert.Equal(t, 1, validator.llmCalls)
	assert.Equal(t, 1, validator.embedCalls)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service, _ := newTestSettings(nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestConfigKeys(t *testing.T) {
	keys := ConfigKeys()

	assert.True(t, slices.IsSorted(keys))
	assert.Contains(t, keys, "assistant.triage_temperature")
	assert.Contains(t, keys, "llm.requests_per_minute")
	assert.Len(t, keys, 17)
}
