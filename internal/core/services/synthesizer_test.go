package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

const groundedAnswer = "Conforme o Art. 15, o zoneamento urbano é definido por lei municipal específica."

func zoningPassages() []domain.Passage {
	return []domain.Passage{
		{Content: longText("Art. 15 - O zoneamento urbano"), Source: "lei_organica.pdf", Page: 7},
		{Content: "curto demais", Source: "lei_organica.pdf", Page: 8},
		{Content: "   ", Source: "lei_organica.pdf", Page: 9},
		{Content: longText("Art. 16 - O uso do solo"), Source: "lei_organica.pdf", Page: 7},
	}
}

func TestSynthesizer_Grounded(t *testing.T) {
	gen := &mockGenerator{response: "  " + groundedAnswer + "\n"}
	s := NewSynthesizer(gen, "")

	got := s.Synthesize(context.Background(), "Qual o artigo sobre zoneamento urbano?", zoningPassages())

	assert.True(t, got.Grounded)
	assert.Equal(t, groundedAnswer, got.Text)
	require.Len(t, got.Citations, 2)
	assert.Contains(t, got.Citations[0].Content, "Art. 15")
	assert.Contains(t, got.Citations[1].Content, "Art. 16")
}

func TestSynthesizer_NoPassagesSkipsGeneration(t *testing.T) {
	gen := &mockGenerator{response: groundedAnswer}
	s := NewSynthesizer(gen, "")

	got := s.Synthesize(context.Background(), "pergunta", nil)

	assert.False(t, got.Grounded)
	assert.Contains(t, got.Text, "Não encontrei informações específicas nas "+domain.DefaultCorpusName)
	assert.Contains(t, got.Text, "Exemplos:")
	assert.NotNil(t, got.Citations)
	assert.Empty(t, got.Citations)
	assert.Zero(t, gen.calls())
}

func TestSynthesizer_NoUsablePassagesSkipsGeneration(t *testing.T) {
	gen := &mockGenerator{response: groundedAnswer}
	s := NewSynthesizer(gen, "")

	passages := []domain.Passage{
		{Content: "curto"},
		{Content: "  " + strings.Repeat("x", domain.MinPassageLength) + "  "},
	}
	got := s.Synthesize(context.Background(), "pergunta", passages)

	assert.False(t, got.Grounded)
	assert.Contains(t, got.Text, "Não encontrei informações relevantes")
	assert.NotNil(t, got.Citations)
	assert.Empty(t, got.Citations)
	assert.Zero(t, gen.calls())
}

func TestSynthesizer_PassageLengthCountsCharacters(t *testing.T) {
	s := NewSynthesizer(&mockGenerator{response: groundedAnswer}, "")

	// Two-byte runes: a byte count would accept the first case.
	atLimit := []domain.Passage{{Content: strings.Repeat("ç", domain.MinPassageLength)}}
	got := s.Synthesize(context.Background(), "pergunta", atLimit)
	assert.False(t, got.Grounded)

	above := []domain.Passage{{Content: strings.Repeat("ç", domain.MinPassageLength+1)}}
	got = s.Synthesize(context.Background(), "pergunta", above)
	assert.True(t, got.Grounded)
}

func TestSynthesizer_ShortAnswerRejected(t *testing.T) {
	s := NewSynthesizer(&mockGenerator{response: "  Art. 15.  "}, "")

	got := s.Synthesize(context.Background(), "pergunta", zoningPassages())

	assert.False(t, got.Grounded)
	assert.Equal(t, msgInadequate, got.Text)
	assert.Len(t, got.Citations, 2)
}

func TestSynthesizer_AnswerLengthBoundary(t *testing.T) {
	exact := strings.Repeat("a", domain.MinAnswerLength)
	got := NewSynthesizer(&mockGenerator{response: exact}, "").
		Synthesize(context.Background(), "pergunta", zoningPassages())
	assert.True(t, got.Grounded)

	short := strings.Repeat("a", domain.MinAnswerLength-1)
	got = NewSynthesizer(&mockGenerator{response: short}, "").
		Synthesize(context.Background(), "pergunta", zoningPassages())
	assert.False(t, got.Grounded)
}

func TestSynthesizer_RefusalRejected(t *testing.T) {
	refusals := []string{
		"Não encontrei informações sobre esse tema no contexto fornecido.",
		"Infelizmente NÃO SEI responder com base nos trechos apresentados.",
		"Eu não tenho dados suficientes no contexto para responder isso.",
	}
	for _, answer := range refusals {
		s := NewSynthesizer(&mockGenerator{response: answer}, "")

		got := s.Synthesize(context.Background(), "pergunta", zoningPassages())

		assert.False(t, got.Grounded, answer)
		assert.Equal(t, fmt.Sprintf(msgNoInformation, domain.DefaultCorpusName), got.Text)
		assert.Len(t, got.Citations, 2)
	}
}

func TestSynthesizer_RefusalMatchesQuotedPhrase(t *testing.T) {
	answer := "O artigo diz que 'não tenho conhecimento disso' não exime o servidor do dever legal."
	s := NewSynthesizer(&mockGenerator{response: answer}, "")

	got := s.Synthesize(context.Background(), "pergunta", zoningPassages())

	assert.False(t, got.Grounded)
}

func TestSynthesizer_GenerationError(t *testing.T) {
	transport := errors.New("dial tcp 127.0.0.1:11434: connection refused")
	s := NewSynthesizer(&mockGenerator{err: transport}, "")

	got := s.Synthesize(context.Background(), "Qual o artigo sobre zoneamento urbano?", zoningPassages())

	assert.False(t, got.Grounded)
	assert.Contains(t, got.Text, "connection refused")
	assert.True(t, strings.HasPrefix(got.Text, "Erro ao processar a resposta"))
	assert.Equal(t, domain.UsablePassages(zoningPassages()), got.Citations)
}

func TestSynthesizer_GenerationTimeout(t *testing.T) {
	gen := NewBoundGenerator(&mockLLMService{block: true}, driven.GenerateOptions{}, 10*time.Millisecond)
	s := NewSynthesizer(gen, "")

	got := s.Synthesize(context.Background(), "pergunta", zoningPassages())

	assert.False(t, got.Grounded)
	assert.True(t, strings.HasPrefix(got.Text, "Tempo esgotado"))
	assert.Len(t, got.Citations, 2)
}

func TestSynthesizer_MessagesCarryOnlyUsablePassages(t *testing.T) {
	gen := &mockGenerator{response: groundedAnswer}
	s := NewSynthesizer(gen, "Leis de Teste")

	_ = s.Synthesize(context.Background(), "Qual o artigo sobre zoneamento?", zoningPassages())

	require.Equal(t, 1, gen.calls())
	require.Empty(t, gen.prompts)
	messages := gen.chats[0]
	require.Len(t, messages, 2)
	assert.Equal(t, driven.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "Leis de Teste")
	assert.NotContains(t, messages[0].Content, "Human:")

	user := messages[1]
	assert.Equal(t, driven.RoleUser, user.Role)
	assert.True(t, strings.HasPrefix(user.Content, "Pergunta: Qual o artigo sobre zoneamento?"))
	assert.Contains(t, user.Content, "Contexto das Leis de Teste:")
	assert.Contains(t, user.Content, "Art. 15")
	assert.Contains(t, user.Content, "Art. 16")
	assert.NotContains(t, user.Content, "curto demais")
}

func TestSynthesizer_ChatUsesAnswerOptions(t *testing.T) {
	llm := &mockLLMService{response: groundedAnswer}
	gen := NewBoundGenerator(llm, driven.GenerateOptions{Temperature: 0.3, MaxTokens: 512}, time.Second)
	s := NewSynthesizer(gen, "")

	got := s.Synthesize(context.Background(), "pergunta", zoningPassages())

	assert.True(t, got.Grounded)
	assert.Equal(t, driven.ChatOptions{Temperature: 0.3, MaxTokens: 512}, llm.lastChatOpts)
	require.Len(t, llm.lastMessages, 2)
	assert.Equal(t, driven.RoleSystem, llm.lastMessages[0].Role)
	assert.Equal(t, driven.RoleUser, llm.lastMessages[1].Role)
}

func TestSynthesizer_PromptStore(t *testing.T) {
	s := NewSynthesizer(&mockGenerator{}, "C")
	s.SetPromptStore(&mockPromptStore{templates: map[string]string{
		driven.PromptAnswerSystem: "sys {corpus}",
		driven.PromptAnswerHuman:  "{question}|{context}",
	}})

	got := s.Messages("q", []domain.Passage{{Content: "p1"}, {Content: "p2"}})

	assert.Equal(t, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "sys C"},
		{Role: driven.RoleUser, Content: "q|p1\n\np2"},
	}, got)
}
