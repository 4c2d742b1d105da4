package domain

// Decision is the routing decision produced by triage.
type Decision string

// Available triage decisions.
const (
	// DecisionAutoResolve means the message is a specific, answerable question
	// about the corpus and should go through retrieval and synthesis.
	DecisionAutoResolve Decision = "AUTO_RESOLVE"

	// DecisionRequestInfo means the message is vague and the user must clarify.
	DecisionRequestInfo Decision = "REQUEST_INFO"

	// DecisionOpenTicket means the user asks for an exception, approval or ticket.
	DecisionOpenTicket Decision = "OPEN_TICKET"
)

// IsValid returns true if the decision is recognised.
func (d Decision) IsValid() bool {
	switch d {
	case DecisionAutoResolve, DecisionRequestInfo, DecisionOpenTicket:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Decision) String() string {
	return string(d)
}

// Urgency is the urgency assigned by triage.
type Urgency string

// Available urgency levels.
const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// IsValid returns true if the urgency is recognised.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (u Urgency) String() string {
	return string(u)
}

// TriageResult is the structured classification of a user message.
// Decision and Urgency are always one of their enumerated values.
type TriageResult struct {
	// Decision selects the branch the router takes.
	Decision Decision `json:"decision"`

	// Urgency is reported back when a ticket is opened.
	Urgency Urgency `json:"urgency"`

	// MissingFields names the information absent from the message.
	MissingFields []string `json:"missing_fields"`
}

// DefaultTriage returns the safe fallback used whenever classifier
// output cannot be trusted.
func DefaultTriage() TriageResult {
	return TriageResult{
		Decision:      DecisionRequestInfo,
		Urgency:       UrgencyMedium,
		MissingFields: []string{},
	}
}

// AllDecisions returns all triage decisions.
func AllDecisions() []Decision {
	return []Decision{
		DecisionAutoResolve,
		DecisionRequestInfo,
		DecisionOpenTicket,
	}
}

// AllUrgencies returns all urgency levels, lowest first.
func AllUrgencies() []Urgency {
	return []Urgency{
		UrgencyLow,
		UrgencyMedium,
		UrgencyHigh,
	}
}
