package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vademecum/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question about the organic laws, in Portuguese"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string          `json:"answer"`
	Decision      string          `json:"decision"`
	Urgency       string          `json:"urgency"`
	MissingFields []string        `json:"missing_fields"`
	FinalAction   string          `json:"final_action"`
	Grounded      bool            `json:"grounded"`
	Citations     []PassageOutput `json:"citations"`
}

// SearchPassagesInput is the input schema for the search_passages tool.
type SearchPassagesInput struct {
	Query string `json:"query" jsonschema:"the text to find related passages for"`
}

// SearchPassagesOutput is the output schema for the search_passages tool.
type SearchPassagesOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput represents a single corpus passage.
type PassageOutput struct {
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a question about the " + s.ports.corpusName() +
			". Vague questions get a clarification request and exception requests open a ticket.",
	}, s.handleAsk)

	if s.ports.Search != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_passages",
			Description: "Return the indexed passages closest to a query, with source and page",
		}, s.handleSearchPassages)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	state := s.ports.Assistant.AnswerQuery(ctx, question)

	missing := state.Triage.MissingFields
	if missing == nil {
		missing = []string{}
	}
	return nil, AskOutput{
		Answer:        state.Answer,
		Decision:      state.Triage.Decision.String(),
		Urgency:       state.Triage.Urgency.String(),
		MissingFields: missing,
		FinalAction:   state.FinalAction.String(),
		Grounded:      state.Grounded,
		Citations:     toPassageOutputs(state.Citations),
	}, nil
}

// handleSearchPassages handles the search_passages tool invocation.
func (s *Server) handleSearchPassages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPassagesInput,
) (*mcp.CallToolResult, SearchPassagesOutput, error) {
	if s.ports.Search == nil {
		return nil, SearchPassagesOutput{}, errors.New("passage search is not available")
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, SearchPassagesOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	passages, err := s.ports.Search.Retrieve(ctx, query)
	if err != nil {
		return nil, SearchPassagesOutput{}, err
	}

	return nil, SearchPassagesOutput{
		Passages: toPassageOutputs(passages),
		Count:    len(passages),
	}, nil
}

func toPassageOutputs(passages []domain.Passage) []PassageOutput {
	out := make([]PassageOutput, len(passages))
	for i, p := range passages {
		out[i] = PassageOutput{
			Source:  p.Source,
			Page:    p.Page,
			Content: p.Content,
		}
	}
	return out
}
