package services

import (
	"context"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure Classifier implements the interfaces.
var (
	_ Triager                 = (*Classifier)(nil)
	_ driven.PromptStoreAware = (*Classifier)(nil)
)

// Classifier turns a user message into a TriageResult using one
// generation call.
type Classifier struct {
	generator  driven.TextGenerator
	prompts    driven.PromptStore
	corpusName string
}

// NewClassifier creates a classifier. An empty corpusName uses the default corpus.
func NewClassifier(generator driven.TextGenerator, corpusName string) *Classifier {
	if corpusName == "" {
		corpusName = domain.DefaultCorpusName
	}
	return &Classifier{
		generator:  generator,
		corpusName: corpusName,
	}
}

// SetPromptStore sets the prompt store for loading the triage template.
func (c *Classifier) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

// Classify never fails. Generation errors, timeouts and unreadable output
// all yield domain.DefaultTriage.
func (c *Classifier) Classify(ctx context.Context, message string) domain.TriageResult {
	prompt := c.Prompt(message)

	raw, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("Triage generation failed, using default: %v", err)
		return domain.DefaultTriage()
	}

	result, stage := parseTriage(raw)
	logger.Debug("Triage parsed via %s: decision=%s urgency=%s missing=%v",
		stage, result.Decision, result.Urgency, result.MissingFields)
	return result
}

// Prompt renders the triage prompt for message.
func (c *Classifier) Prompt(message string) string {
	return renderPrompt(loadPrompt(c.prompts, driven.PromptTriage), map[string]string{
		"corpus":  c.corpusName,
		"message": message,
	})
}
