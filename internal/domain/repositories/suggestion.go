package repositories

import (
	"context"
	"time"

	"peraturan/internal/domain/models"
)

// SuggestionRepository persists reader-submitted corrections. Rows are
// never deleted; terminal status updates are guarded by status=pending
// in the store so two concurrent reviewers cannot both win.
type SuggestionRepository interface {
	// Create inserts a new pending suggestion and fills its ID and
	// CreatedAt.
	Create(ctx context.Context, s *models.Suggestion) error

	// GetPendingByID retrieves a suggestion only if it is still pending.
	// Returns domain.ErrNotFound otherwise, which doubles as the
	// double-processing guard.
	GetPendingByID(ctx context.Context, id int64) (*models.Suggestion, error)

	// ListRecent returns the most recent suggestions, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.Suggestion, error)

	// SetAgentReview stores the AI-advisory outcome without changing
	// status.
	SetAgentReview(ctx context.Context, id int64, review *AgentReviewUpdate) error

	// MarkDecided transitions a pending suggestion to a terminal status.
	// Returns domain.ErrNotFound when the suggestion was not pending
	// (lost a race or never existed) so exactly one decision wins.
	MarkDecided(ctx context.Context, id int64, d *DecisionUpdate) error
}

// AgentReviewUpdate carries the advisory fields set by verification.
type AgentReviewUpdate struct {
	Decision        string
	Confidence      *float64
	ModifiedContent *string
	Response        *models.AgentResponse
}

// DecisionUpdate carries the terminal-state stamp for a suggestion.
type DecisionUpdate struct {
	Status     string // approved or rejected
	ReviewedBy string
	ReviewedAt time.Time
	ReviewNote *string
	RevisionID *int64 // set on approval
}

// RevisionRepository appends audit records. Append-only: there is no
// update or delete surface.
type RevisionRepository interface {
	// Create inserts a revision and fills its ID and CreatedAt.
	Create(ctx context.Context, rev *models.Revision) error

	// ListByNode returns a node's revisions, newest first.
	ListByNode(ctx context.Context, nodeID int64, limit int) ([]models.Revision, error)
}
