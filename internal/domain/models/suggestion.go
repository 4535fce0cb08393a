package models

import "time"

// Suggestion statuses. The state machine is pending → {approved, rejected};
// terminal states are never re-opened.
const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
	SuggestionRejected = "rejected"
)

// Agent decisions stored on a suggestion after AI verification.
const (
	AgentAccept                = "accept"
	AgentAcceptWithCorrections = "accept_with_corrections"
	AgentReject                = "reject"
	AgentError                 = "error"
)

// Suggestion is a reader-submitted proposed correction to one document
// node. CurrentContent is a snapshot of the node's text at submission
// time, which is what makes staleness detection possible later.
// Suggestions are never deleted; they are the audit record of what was
// proposed and decided.
type Suggestion struct {
	ID               int64                  `json:"id" db:"id"`
	WorkID           int64                  `json:"work_id" db:"work_id"`
	NodeID           int64                  `json:"node_id" db:"node_id"`
	NodeType         string                 `json:"node_type" db:"node_type"`
	NodeNumber       *string                `json:"node_number" db:"node_number"`
	CurrentContent   string                 `json:"current_content" db:"current_content"`
	SuggestedContent string                 `json:"suggested_content" db:"suggested_content"`
	UserReason       *string                `json:"user_reason" db:"user_reason"`
	SubmitterEmail   *string                `json:"submitter_email" db:"submitter_email"`
	Status           string                 `json:"status" db:"status"`
	Metadata         map[string]interface{} `json:"metadata,omitempty" db:"metadata"`

	// AI-advisory fields. Absent until an admin triggers verification;
	// never consulted automatically.
	AgentDecision        *string        `json:"agent_decision" db:"agent_decision"`
	AgentConfidence      *float64       `json:"agent_confidence" db:"agent_confidence"`
	AgentModifiedContent *string        `json:"agent_modified_content" db:"agent_modified_content"`
	AgentResponse        *AgentResponse `json:"agent_response" db:"agent_response"`

	ReviewedBy *string    `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at" db:"reviewed_at"`
	ReviewNote *string    `json:"review_note" db:"review_note"`
	RevisionID *int64     `json:"revision_id" db:"revision_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsPending reports whether the suggestion can still be decided.
func (s *Suggestion) IsPending() bool {
	return s.Status == SuggestionPending
}

// AgentResponse is the structured advisory payload stored verbatim on the
// suggestion. Every field is optional; absence is a valid, expected state.
type AgentResponse struct {
	Parsed *AgentParsed `json:"parsed,omitempty"`
	Model  string       `json:"model,omitempty"`
	Raw    string       `json:"raw,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// AgentParsed is the decoded JSON body of the advisory model's answer.
type AgentParsed struct {
	Reasoning        string       `json:"reasoning,omitempty"`
	CorrectedContent *string      `json:"corrected_content,omitempty"`
	AdditionalIssues []AgentIssue `json:"additional_issues,omitempty"`
	ParserFeedback   string       `json:"parser_feedback,omitempty"`
}

// AgentIssue is one extra problem the advisory model found in the
// surrounding text (typo, OCR artifact, missing text, ...).
type AgentIssue struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}
