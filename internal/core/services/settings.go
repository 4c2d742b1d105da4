package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMRPM            = "llm.requests_per_minute"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyCorpusName        = "assistant.corpus_name"
	keyTriageTemperature = "assistant.triage_temperature"
	keyAnswerTemperature = "assistant.answer_temperature"
	keyLLMTimeout        = "assistant.llm_timeout_seconds"
	keyRetrievalTimeout  = "assistant.retrieval_timeout_seconds"
	keyChunkSize         = "ingest.chunk_size"
	keyChunkOverlap      = "ingest.chunk_overlap"
	keyBatchSize         = "ingest.batch_size"
)

// Environment variables consulted when the config file leaves a value unset.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOllamaHost      = "OLLAMA_HOST"
)

// placeholderAPIKey is the sample value shipped in example .env files.
//
//nolint:gosec // G101: Placeholder text, not a credential.
const placeholderAPIKey = "sua_chave_api_aqui"

// ConfigKeys returns every settable configuration key, sorted.
func ConfigKeys() []string {
	keys := []string{
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyLLMRPM,
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyCorpusName, keyTriageTemperature, keyAnswerTemperature, keyLLMTimeout, keyRetrievalTimeout,
		keyChunkSize, keyChunkOverlap, keyBatchSize,
	}
	slices.Sort(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Useful for testing.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current application settings.
// Values missing from the config file are taken from the environment, then defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	llmDefault, embedDefault := defaults.LLM.Provider, defaults.Embedding.Provider
	if s.hasGoogleKey() {
		llmDefault, embedDefault = domain.AIProviderGemini, domain.AIProviderGemini
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, llmDefault),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, embedDefault),
		},
		Assistant: domain.AssistantSettings{
			CorpusName:        s.getString(keyCorpusName, defaults.Assistant.CorpusName),
			TriageTemperature: s.getFloat(keyTriageTemperature, defaults.Assistant.TriageTemperature),
			AnswerTemperature: s.getFloat(keyAnswerTemperature, defaults.Assistant.AnswerTemperature),
			LLMTimeout:        s.getSeconds(keyLLMTimeout, defaults.Assistant.LLMTimeout),
			RetrievalTimeout:  s.getSeconds(keyRetrievalTimeout, defaults.Assistant.RetrievalTimeout),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Ingest.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.Ingest.ChunkOverlap),
			BatchSize:    s.getInt(keyBatchSize, defaults.Ingest.BatchSize),
		},
	}

	llm := &settings.LLM
	llm.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[llm.Provider])
	llm.BaseURL = s.getString(keyLLMBaseURL, s.envBaseURL(llm.Provider))
	llm.APIKey = s.getString(keyLLMAPIKey, s.envAPIKey(llm.Provider))
	llm.RequestsPerMinute = s.getInt(keyLLMRPM, domain.DefaultRequestsPerMinute()[llm.Provider])

	embed := &settings.Embedding
	embed.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embed.Provider])
	embed.BaseURL = s.getString(keyEmbedBaseURL, s.envBaseURL(embed.Provider))
	embed.APIKey = s.getString(keyEmbedAPIKey, s.envAPIKey(embed.Provider))

	return settings, nil
}

// Save persists application settings.
// API keys sourced from the environment are not written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMRPM, settings.LLM.RequestsPerMinute},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyCorpusName, settings.Assistant.CorpusName},
		{keyTriageTemperature, settings.Assistant.TriageTemperature},
		{keyAnswerTemperature, settings.Assistant.AnswerTemperature},
		{keyLLMTimeout, int(settings.Assistant.LLMTimeout / time.Second)},
		{keyRetrievalTimeout, int(settings.Assistant.RetrievalTimeout / time.Second)},
		{keyChunkSize, settings.Ingest.ChunkSize},
		{keyChunkOverlap, settings.Ingest.ChunkOverlap},
		{keyBatchSize, settings.Ingest.BatchSize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if key := settings.LLM.APIKey; key != "" && key != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, key); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	if key := settings.Embedding.APIKey; key != "" && key != s.envAPIKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, key); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !provider.SupportsEmbedding() {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = s.envBaseURL(provider)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = s.envBaseURL(provider)
	settings.LLM.APIKey = apiKey
	settings.LLM.RequestsPerMinute = domain.DefaultRequestsPerMinute()[provider]

	return s.Save(settings)
}

// SetValue updates a single configuration key after validating it.
func (s *SettingsService) SetValue(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case keyLLMProvider, keyEmbedProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		if key == keyEmbedProvider && !p.SupportsEmbedding() {
			return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, p)
		}
		parsed = value
	case keyTriageTemperature, keyAnswerTemperature:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("%w: %s must be a number between 0 and 2", domain.ErrInvalidInput, key)
		}
		parsed = f
	case keyLLMRPM, keyLLMTimeout, keyRetrievalTimeout, keyChunkSize, keyChunkOverlap, keyBatchSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyCorpusName:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if key == keyChunkOverlap || key == keyChunkSize {
		settings, err := s.Get()
		if err != nil {
			return err
		}
		size, overlap := settings.Ingest.ChunkSize, settings.Ingest.ChunkOverlap
		if key == keyChunkSize {
			size = parsed.(int)
		} else {
			overlap = parsed.(int)
		}
		if overlap >= size {
			return fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
				domain.ErrInvalidInput, overlap, size)
		}
	}

	return s.configStore.Set(key, parsed)
}

// Validate checks that the configured providers are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if settings.Ingest.ChunkOverlap >= settings.Ingest.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be smaller than chunk size", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// hasGoogleKey reports whether the environment carries a usable Google API key.
func (s *SettingsService) hasGoogleKey() bool {
	key := strings.TrimSpace(s.getenv(EnvGoogleAPIKey))
	return key != "" && key != placeholderAPIKey && len(key) > 10
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGemini:
		if s.hasGoogleKey() {
			return strings.TrimSpace(s.getenv(EnvGoogleAPIKey))
		}
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicAPIKey)
	}
	return ""
}

func (s *SettingsService) envBaseURL(provider domain.AIProvider) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	host := s.getenv(EnvOllamaHost)
	if host == "" {
		return "http://localhost:11434"
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	n := s.getInt(key, -1)
	if n <= 0 {
		return defaultVal
	}
	return time.Duration(n) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
