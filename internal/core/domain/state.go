package domain

// RouteState names a node of the query routing graph.
type RouteState string

// Routing graph nodes. Triage is the entry node; End is terminal.
const (
	StateTriage      RouteState = "TRIAGE"
	StateAutoResolve RouteState = "AUTO_RESOLVE"
	StateRequestInfo RouteState = "REQUEST_INFO"
	StateOpenTicket  RouteState = "OPEN_TICKET"
	StateEnd         RouteState = "END"
)

// IsTerminalAction reports whether the state may be recorded as a final action.
func (s RouteState) IsTerminalAction() bool {
	switch s {
	case StateAutoResolve, StateRequestInfo, StateOpenTicket:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s RouteState) String() string {
	return string(s)
}

// AgentState is the record threaded through one routed query.
// It is created per query and carries no cross-query state.
type AgentState struct {
	// Message is the raw user input.
	Message string `json:"message"`

	// Triage is the classification of Message.
	Triage TriageResult `json:"triage"`

	// Answer is the response text shown to the user.
	Answer string `json:"answer"`

	// Citations are the passages backing Answer. Empty for clarification
	// and ticket responses.
	Citations []Passage `json:"citations"`

	// Grounded is true when Answer was synthesized from the corpus.
	Grounded bool `json:"grounded"`

	// FinalAction names the terminal node reached.
	FinalAction RouteState `json:"final_action"`

	// Path lists the nodes visited, in order.
	Path []RouteState `json:"path"`
}
