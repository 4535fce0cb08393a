package services

import (
	"context"

	"peraturan/internal/domain/models"
)

// SuggestionService orchestrates the correction workflow: submission
// with staleness detection, AI-advisory verification, and admin decision
// with atomic revision application.
type SuggestionService interface {
	// Submit validates and persists a new pending suggestion. Returns
	// domain.ErrConflict when the node's live content no longer matches
	// the snapshot the reader edited against.
	Submit(ctx context.Context, req *SubmitSuggestionRequest) (*models.Suggestion, error)

	// ListRecent returns the most recent suggestions for admin review,
	// newest first.
	ListRecent(ctx context.Context, limit int) ([]models.Suggestion, error)

	// Verify runs the external AI-advisory check on a pending suggestion
	// and stores its structured response. Status is never changed; the
	// advisory never auto-applies.
	Verify(ctx context.Context, suggestionID int64) (*models.Suggestion, error)

	// Approve applies a pending suggestion to the canonical store as one
	// transaction and returns the created revision id. When useAIContent
	// is set and an AI-corrected text exists, that text is applied
	// instead of the reader's.
	Approve(ctx context.Context, suggestionID int64, actor *models.Actor, useAIContent bool) (int64, error)

	// Reject marks a pending suggestion rejected. No other side effects.
	Reject(ctx context.Context, suggestionID int64, actor *models.Actor, reviewNote string) error
}

// SubmitSuggestionRequest is a reader's correction submission. The
// content snapshot travels with the request so staleness can be detected
// against the live node.
type SubmitSuggestionRequest struct {
	WorkID           int64                  `json:"work_id"`
	NodeID           int64                  `json:"node_id"`
	NodeType         string                 `json:"node_type"`
	NodeNumber       *string                `json:"node_number,omitempty"`
	CurrentContent   string                 `json:"current_content"`
	SuggestedContent string                 `json:"suggested_content"`
	UserReason       *string                `json:"user_reason,omitempty"`
	SubmitterEmail   *string                `json:"submitter_email,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// SuggestionVerifier is the external AI-advisory collaborator. The
// returned review is advisory only; an admin must still decide.
type SuggestionVerifier interface {
	// VerifySuggestion asks the advisory model to compare the current
	// and suggested content. Implementations return a review with
	// decision "error" plus an UpstreamError when the call itself fails.
	VerifySuggestion(ctx context.Context, req *VerifyRequest) (*AgentReview, error)
}

// VerifyRequest carries everything the advisory model sees.
type VerifyRequest struct {
	NodeType         string
	NodeNumber       string
	CurrentContent   string
	SuggestedContent string
	UserReason       string
}

// AgentReview is the advisory outcome handed back to the workflow.
type AgentReview struct {
	Decision        string
	Confidence      float64
	ModifiedContent *string
	Response        *models.AgentResponse
}
