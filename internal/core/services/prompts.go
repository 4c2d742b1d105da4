package services

import (
	"maps"
	"strings"

	"github.com/custodia-labs/vademecum/internal/core/ports/driven"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// defaultPrompts are the built-in templates. Placeholders are written as {name}
// and substituted with renderPrompt.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptTriage: `Você é um assistente especializado em consultar as {corpus}. Dada a mensagem do usuário, retorne SOMENTE um JSON válido com:
{
  "decision": "AUTO_RESOLVE" | "REQUEST_INFO" | "OPEN_TICKET",
  "urgency": "LOW" | "MEDIUM" | "HIGH",
  "missing_fields": ["..."]
}
Regras:
- **AUTO_RESOLVE**: Perguntas ESPECÍFICAS e CLARAS sobre leis orgânicas, artigos, normas ou procedimentos. Exemplos: "Qual o artigo sobre zoneamento urbano?", "O que diz a lei orgânica sobre transporte público?", "Qual a norma sobre licenciamento ambiental?".
- **REQUEST_INFO**: Mensagens VAGAS, genéricas ou que faltam informações específicas. Exemplos: "me retorne apenas uma lei", "preciso de ajuda", "tenho uma dúvida", "quero saber sobre leis", "me mostre algo".
- **OPEN_TICKET**: Pedidos de exceção, liberação, aprovação ou quando o usuário explicitamente pede para abrir um chamado.
IMPORTANTE: Se a pergunta for genérica ou vaga (como 'me retorne uma lei', 'me mostre algo', 'quero saber sobre'), classifique como REQUEST_INFO.
Em "missing_fields", liste o que falta para responder (pode ser vazio).
Analise a mensagem e retorne APENAS o JSON, sem texto adicional.
Mensagem do usuário: {message}`,

	driven.PromptAnswerSystem: `Você é um assistente especializado em consultar as {corpus}. Sua função é responder perguntas sobre leis, artigos e normas usando APENAS as informações fornecidas no contexto abaixo.
INSTRUÇÕES IMPORTANTES:
1. Use APENAS as informações do contexto fornecido
2. Se encontrar informações relevantes, responda de forma clara e completa
3. Cite artigos, leis ou normas quando mencionados no contexto
4. Se o contexto contém informações sobre o tema perguntado, mesmo que parciais, forneça essas informações
5. Apenas diga 'Não encontrei informações' se o contexto realmente não tiver NADA relacionado à pergunta
6. Seja útil e forneça o máximo de informações possível do contexto`,

	driven.PromptAnswerHuman: `Pergunta: {question}

Contexto das {corpus}:
{context}

Com base no contexto acima, responda a pergunta de forma completa e precisa.`,
}

// DefaultPrompts returns a copy of the built-in prompt templates, keyed by
// prompt name. File-backed prompt stores seed user-editable files from it.
func DefaultPrompts() map[string]string {
	return maps.Clone(defaultPrompts)
}

// loadPrompt returns the named template from store, falling back to the
// built-in default when the store is nil, fails, or holds an empty template.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		tmpl, err := store.Load(name)
		if err == nil && strings.TrimSpace(tmpl) != "" {
			return tmpl
		}
		if err != nil {
			logger.Warn("Load prompt %q failed, using default: %v", name, err)
		}
	}
	return defaultPrompts[name]
}

// renderPrompt substitutes {key} placeholders in a single pass, so values
// containing braces are never re-expanded.
func renderPrompt(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
