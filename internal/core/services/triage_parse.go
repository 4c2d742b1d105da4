package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// parseStage records which rung of the fallback ladder produced a triage.
type parseStage string

const (
	stageStrict  parseStage = "strict"
	stageKeyed   parseStage = "keyed_object"
	stageAny     parseStage = "any_object"
	stageDefault parseStage = "default"
)

var (
	fenceRe       = regexp.MustCompile("(?i)```(?:json)?")
	keyedObjectRe = regexp.MustCompile(`\{[^{}]*"(?:decision|decisao)"[^{}]*\}`)
	anyObjectRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// Field aliases accepted from model output. The Portuguese labels cover
// prompt templates customised in the corpus language.
var (
	decisionKeys      = []string{"decision", "decisao"}
	urgencyKeys       = []string{"urgency", "urgencia"}
	missingFieldsKeys = []string{"missing_fields", "campos_faltantes"}

	decisionAliases = map[string]domain.Decision{
		"AUTO_RESOLVER": domain.DecisionAutoResolve,
		"PEDIR_INFO":    domain.DecisionRequestInfo,
		"ABRIR_CHAMADO": domain.DecisionOpenTicket,
	}
	urgencyAliases = map[string]domain.Urgency{
		"BAIXA": domain.UrgencyLow,
		"MEDIA": domain.UrgencyMedium,
		"MÉDIA": domain.UrgencyMedium,
		"ALTA":  domain.UrgencyHigh,
	}
)

// ParseTriage extracts a TriageResult from raw classifier output.
// It never fails: anything it cannot read degrades to domain.DefaultTriage,
// field by field.
func ParseTriage(raw string) domain.TriageResult {
	result, _ := parseTriage(raw)
	return result
}

// parseTriage runs the ladder: strict parse of the whole text, then the
// first object carrying a decision key, then the widest brace-delimited
// span. A candidate that fails to decode yields the default.
func parseTriage(raw string) (domain.TriageResult, parseStage) {
	text := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))

	if fields, ok := decodeObject(text); ok {
		return normaliseTriage(fields), stageStrict
	}

	if candidate := keyedObjectRe.FindString(text); candidate != "" {
		fields, ok := decodeObject(candidate)
		if !ok {
			return domain.DefaultTriage(), stageDefault
		}
		return normaliseTriage(fields), stageKeyed
	}

	if candidate := anyObjectRe.FindString(text); candidate != "" {
		fields, ok := decodeObject(candidate)
		if !ok {
			return domain.DefaultTriage(), stageDefault
		}
		return normaliseTriage(fields), stageAny
	}

	return domain.DefaultTriage(), stageDefault
}

func decodeObject(s string) (map[string]any, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, false
	}
	return fields, fields != nil
}

// normaliseTriage validates each field independently.
func normaliseTriage(fields map[string]any) domain.TriageResult {
	result := domain.DefaultTriage()

	if label, ok := lookupString(fields, decisionKeys); ok {
		if d := domain.Decision(label); d.IsValid() {
			result.Decision = d
		} else if d, ok := decisionAliases[label]; ok {
			result.Decision = d
		}
	}

	if label, ok := lookupString(fields, urgencyKeys); ok {
		if u := domain.Urgency(label); u.IsValid() {
			result.Urgency = u
		} else if u, ok := urgencyAliases[label]; ok {
			result.Urgency = u
		}
	}

	for _, key := range missingFieldsKeys {
		list, ok := fields[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				result.MissingFields = append(result.MissingFields, strings.TrimSpace(s))
			}
		}
		break
	}

	return result
}

// lookupString returns the first string value under keys, trimmed and upper-cased.
func lookupString(fields map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok {
			return strings.ToUpper(strings.TrimSpace(s)), true
		}
	}
	return "", false
}
