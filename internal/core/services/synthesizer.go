package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure Synthesizer implements the interfaces.
var (
	_ AnswerSynthesizer       = (*Synthesizer)(nil)
	_ driven.PromptStoreAware = (*Synthesizer)(nil)
)

// refusalPhrases mark a generated answer that reports ignorance. The match is
// a plain substring test and can fire on answers quoting these phrases.
var refusalPhrases = []string{"não encontrei", "não sei", "não tenho"}

const (
	msgNoInformation = "Não encontrei informações específicas nas %s para sua pergunta. " +
		"Por favor, tente reformular ou ser mais específico."
	msgNoInformationExamples = msgNoInformation +
		" Exemplos: 'Qual o artigo sobre zoneamento urbano?' ou " +
		"'O que diz a lei orgânica sobre transporte público?'"
	msgNoRelevant = "Não encontrei informações relevantes nas %s para sua pergunta. " +
		"Por favor, tente reformular ou ser mais específico."
	msgInadequate = "Não consegui gerar uma resposta adequada. " +
		"Por favor, tente reformular sua pergunta de forma mais específica."
	msgGenerationError   = "Erro ao processar a resposta: %s. Por favor, tente novamente."
	msgGenerationTimeout = "Tempo esgotado ao gerar a resposta (%s). " +
		"Por favor, tente novamente em instantes."
)

// Synthesizer produces a grounded answer from retrieved passages,
// applying length and self-refusal quality gates.
type Synthesizer struct {
	generator  driven.TextGenerator
	prompts    driven.PromptStore
	corpusName string
}

// NewSynthesizer creates a synthesizer. An empty corpusName uses the default corpus.
func NewSynthesizer(generator driven.TextGenerator, corpusName string) *Synthesizer {
	if corpusName == "" {
		corpusName = domain.DefaultCorpusName
	}
	return &Synthesizer{
		generator:  generator,
		corpusName: corpusName,
	}
}

// SetPromptStore sets the prompt store for loading the answer templates.
func (s *Synthesizer) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Synthesize never fails; every failure is reported as a non-grounded result.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, passages []domain.Passage) domain.AnswerResult {
	if len(passages) == 0 {
		logger.Debug("No passages retrieved, skipping generation")
		return domain.AnswerResult{
			Text:      fmt.Sprintf(msgNoInformationExamples, s.corpusName),
			Citations: []domain.Passage{},
		}
	}

	usable := domain.UsablePassages(passages)
	logger.Debug("Usable passages: %d of %d", len(usable), len(passages))
	if len(usable) == 0 {
		return domain.AnswerResult{
			Text:      fmt.Sprintf(msgNoRelevant, s.corpusName),
			Citations: []domain.Passage{},
		}
	}

	raw, err := s.generator.Chat(ctx, s.Messages(question, usable))
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		return domain.AnswerResult{
			Text:      generationFailureText(err),
			Citations: usable,
		}
	}

	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) < domain.MinAnswerLength {
		logger.Debug("Answer rejected: %d characters", utf8.RuneCountInString(text))
		return domain.AnswerResult{
			Text:      msgInadequate,
			Citations: usable,
		}
	}

	if isRefusal(text) {
		logger.Debug("Answer rejected: self-reported ignorance")
		return domain.AnswerResult{
			Text:      fmt.Sprintf(msgNoInformation, s.corpusName),
			Citations: usable,
		}
	}

	return domain.AnswerResult{
		Text:      text,
		Citations: usable,
		Grounded:  true,
	}
}

// Messages renders the system and user turns that ask question over passages.
func (s *Synthesizer) Messages(question string, passages []domain.Passage) []driven.ChatMessage {
	contents := make([]string, len(passages))
	for i, p := range passages {
		contents[i] = p.Content
	}
	vars := map[string]string{
		"corpus":   s.corpusName,
		"question": question,
		"context":  strings.Join(contents, "\n\n"),
	}

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: renderPrompt(loadPrompt(s.prompts, driven.PromptAnswerSystem), vars)},
		{Role: driven.RoleUser, Content: renderPrompt(loadPrompt(s.prompts, driven.PromptAnswerHuman), vars)},
	}
}

func isRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func generationFailureText(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf(msgGenerationTimeout, err.Error())
	}
	return fmt.Sprintf(msgGenerationError, err.Error())
}
