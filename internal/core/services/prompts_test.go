package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
)

func TestDefaultPrompts_ReturnsCopy(t *testing.T) {
	prompts := DefaultPrompts()
	prompts[driven.PromptTriage] = "changed"

	assert.NotEqual(t, "changed", DefaultPrompts()[driven.PromptTriage])
	assert.Len(t, DefaultPrompts(), 3)
}

func TestDefaultPrompts_Placeholders(t *testing.T) {
	prompts := DefaultPrompts()

	assert.Contains(t, prompts[driven.PromptTriage], "{corpus}")
	assert.Contains(t, prompts[driven.PromptTriage], "{message}")
	assert.Contains(t, prompts[driven.PromptAnswerSystem], "{corpus}")
	assert.Contains(t, prompts[driven.PromptAnswerHuman], "{question}")
	assert.Contains(t, prompts[driven.PromptAnswerHuman], "{context}")
}

func TestLoadPrompt(t *testing.T) {
	custom := &mockPromptStore{templates: map[string]string{driven.PromptTriage: "custom"}}

	assert.Equal(t, "custom", loadPrompt(custom, driven.PromptTriage))
	assert.Equal(t, defaultPrompts[driven.PromptTriage], loadPrompt(nil, driven.PromptTriage))

	blank := &mockPromptStore{templates: map[string]string{driven.PromptTriage: "   "}}
	assert.Equal(t, defaultPrompts[driven.PromptTriage], loadPrompt(blank, driven.PromptTriage))

	failing := &mockPromptStore{err: errMock}
	assert.Equal(t, defaultPrompts[driven.PromptTriage], loadPrompt(failing, driven.PromptTriage))
}

func TestRenderPrompt(t *testing.T) {
	got := renderPrompt("{a} and {b} but not {c}", map[string]string{
		"a": "one",
		"b": "{a}",
	})

	assert.Equal(t, "one and {a} but not {c}", got)
}
