package ai

import (
	"fmt"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// apiKeyEnv names the environment variable each cloud provider reads its key from.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderGemini:    "GOOGLE_API_KEY",
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding checks the provider can embed, has its key, and answers a ping.
// A nil or empty config has nothing to validate.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, config.Provider)
	}
	if !config.Provider.SupportsEmbedding() {
		return fmt.Errorf("%w: %s does not support embeddings", domain.ErrUnsupportedType, config.Provider)
	}
	if err := requireKey(config.Provider, config.APIKey); err != nil {
		return err
	}
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM checks the provider has its key and answers a ping.
// A nil or empty config has nothing to validate.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, config.Provider)
	}
	if err := requireKey(config.Provider, config.APIKey); err != nil {
		return err
	}
	return ValidateLLMConfig(config)
}

func requireKey(provider domain.AIProvider, key string) error {
	if provider.RequiresAPIKey() && key == "" {
		return fmt.Errorf("%w: %s requires an API key (set %s)",
			domain.ErrInvalidInput, provider, apiKeyEnv[provider])
	}
	return nil
}
