package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/vademecum/internal/core/domain"
	"github.com/custodia-labs/vademecum/internal/core/ports/driving"
	"github.com/custodia-labs/vademecum/internal/logger"
)

// Ensure Router implements the interface.
var _ driving.AssistantService = (*Router)(nil)

// Triager classifies a message. Implementations must not fail.
type Triager interface {
	Classify(ctx context.Context, message string) domain.TriageResult
}

// PassageRetriever returns candidate passages for a question.
type PassageRetriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.Passage, error)
}

// AnswerSynthesizer produces an answer from passages. Implementations must not fail.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, passages []domain.Passage) domain.AnswerResult
}

// ticketKeywords route a failed auto-resolution to ticket opening.
var ticketKeywords = []string{"aprovação", "exceção", "liberação", "abrir ticket", "acesso especial"}

const (
	ticketExcerptLength   = 140
	genericMissingDetails = "tema e contexto específico"
	msgRetrievalError     = "Erro ao buscar informações: %s"
	msgRequestInfo        = "Para avançar, preciso que você detalhe: %s"
	msgOpenTicket         = "Abrindo chamado com urgência %s. Descrição: %s"
)

// maxSteps bounds the walk. The longest path is
// TRIAGE, AUTO_RESOLVE, OPEN_TICKET, END.
const maxSteps = 8

// Router runs the fixed query graph:
//
//	TRIAGE -> AUTO_RESOLVE | REQUEST_INFO | OPEN_TICKET
//	AUTO_RESOLVE -> END (grounded) | OPEN_TICKET | REQUEST_INFO
//	REQUEST_INFO -> END
//	OPEN_TICKET -> END
//
// A Router holds no per-query state and is safe for concurrent use.
type Router struct {
	triager     Triager
	retriever   PassageRetriever
	synthesizer AnswerSynthesizer
}

// NewRouter creates a router over its three collaborators.
func NewRouter(triager Triager, retriever PassageRetriever, synthesizer AnswerSynthesizer) *Router {
	return &Router{
		triager:     triager,
		retriever:   retriever,
		synthesizer: synthesizer,
	}
}

// AnswerQuery walks the graph for message and returns the final state.
// It never panics on collaborator failures and never returns an error.
func (r *Router) AnswerQuery(ctx context.Context, message string) domain.AgentState {
	logger.Section("Answer Query")
	logger.Debug("Message: %q", message)

	state := &domain.AgentState{
		Message:   message,
		Triage:    domain.DefaultTriage(),
		Citations: []domain.Passage{},
	}

	current := domain.StateTriage
	for step := 0; current != domain.StateEnd; step++ {
		state.Path = append(state.Path, current)
		if step >= maxSteps {
			// Unreachable with the transitions below.
			logger.Warn("Step limit reached at %s, forcing %s", current, domain.StateRequestInfo)
			current = r.requestInfo(state)
			continue
		}
		next := r.step(ctx, current, state)
		logger.Zap().Debug("transition",
			zap.Stringer("from", current), zap.Stringer("to", next), zap.Int("step", step))
		current = next
	}
	state.Path = append(state.Path, domain.StateEnd)

	logger.Info("Final action: %s (grounded=%t)", state.FinalAction, state.Grounded)
	return *state
}

// step runs one node and returns the next state.
func (r *Router) step(ctx context.Context, current domain.RouteState, state *domain.AgentState) domain.RouteState {
	switch current {
	case domain.StateTriage:
		return r.triage(ctx, state)
	case domain.StateAutoResolve:
		return r.autoResolve(ctx, state)
	case domain.StateRequestInfo:
		return r.requestInfo(state)
	case domain.StateOpenTicket:
		return r.openTicket(state)
	default:
		return domain.StateRequestInfo
	}
}

func (r *Router) triage(ctx context.Context, state *domain.AgentState) domain.RouteState {
	state.Triage = r.triager.Classify(ctx, state.Message)
	return nextAfterTriage(state.Triage.Decision)
}

// nextAfterTriage is total: unrecognised decisions go to REQUEST_INFO.
func nextAfterTriage(d domain.Decision) domain.RouteState {
	switch d {
	case domain.DecisionAutoResolve:
		return domain.StateAutoResolve
	case domain.DecisionOpenTicket:
		return domain.StateOpenTicket
	case domain.DecisionRequestInfo:
		return domain.StateRequestInfo
	default:
		logger.Warn("Unrecognised decision %q, routing to %s", d, domain.StateRequestInfo)
		return domain.StateRequestInfo
	}
}

// autoResolve is the only node that retrieves.
func (r *Router) autoResolve(ctx context.Context, state *domain.AgentState) domain.RouteState {
	var answer domain.AnswerResult

	passages, err := r.retriever.Retrieve(ctx, state.Message)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		answer = domain.AnswerResult{
			Text:      fmt.Sprintf(msgRetrievalError, err.Error()),
			Citations: []domain.Passage{},
		}
	} else {
		answer = r.synthesizer.Synthesize(ctx, state.Message, passages)
	}

	state.Answer = answer.Text
	state.Citations = answer.Citations
	if state.Citations == nil {
		state.Citations = []domain.Passage{}
	}
	state.Grounded = answer.Grounded

	if answer.Grounded {
		state.FinalAction = domain.StateAutoResolve
		return domain.StateEnd
	}
	if wantsTicket(state.Message) {
		return domain.StateOpenTicket
	}
	return domain.StateRequestInfo
}

func (r *Router) requestInfo(state *domain.AgentState) domain.RouteState {
	details := genericMissingDetails
	if len(state.Triage.MissingFields) > 0 {
		details = strings.Join(state.Triage.MissingFields, ", ")
	}
	state.Answer = fmt.Sprintf(msgRequestInfo, details)
	state.Citations = []domain.Passage{}
	state.FinalAction = domain.StateRequestInfo
	return domain.StateEnd
}

func (r *Router) openTicket(state *domain.AgentState) domain.RouteState {
	state.Answer = fmt.Sprintf(msgOpenTicket, state.Triage.Urgency, excerpt(state.Message, ticketExcerptLength))
	state.Citations = []domain.Passage{}
	state.FinalAction = domain.StateOpenTicket
	return domain.StateEnd
}

func wantsTicket(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range ticketKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
