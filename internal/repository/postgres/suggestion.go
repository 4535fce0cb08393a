package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"peraturan/internal/domain"
	"peraturan/internal/domain/models"
	"peraturan/internal/domain/repositories"
)

// PostgresSuggestionRepository implements the SuggestionRepository interface
type PostgresSuggestionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(config *RepositoryConfig) repositories.SuggestionRepository {
	return &PostgresSuggestionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const suggestionColumns = `
	id, work_id, node_id, node_type, node_number,
	current_content, suggested_content, user_reason, submitter_email,
	status, metadata,
	agent_decision, agent_confidence, agent_modified_content, agent_response,
	reviewed_by, reviewed_at, review_note, revision_id, created_at`

// Create inserts a new pending suggestion
func (r *PostgresSuggestionRepository) Create(ctx context.Context, s *models.Suggestion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			work_id, node_id, node_type, node_number,
			current_content, suggested_content, user_reason, submitter_email,
			status, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		s.WorkID,
		s.NodeID,
		s.NodeType,
		s.NodeNumber,
		s.CurrentContent,
		s.SuggestedContent,
		s.UserReason,
		s.SubmitterEmail,
		s.Status,
		s.Metadata,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("node %d: %w", s.NodeID, domain.ErrNotFound)
		}
		return fmt.Errorf("create suggestion: %w", err)
	}

	return nil
}

// GetPendingByID retrieves a suggestion only while it is still pending.
// The status filter is the double-processing guard: once a decision
// lands, every later reader sees not-found.
func (r *PostgresSuggestionRepository) GetPendingByID(ctx context.Context, id int64) (*models.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND status = $2
	`, suggestionColumns, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, id, models.SuggestionPending)

	s, err := scanSuggestion(row)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("pending suggestion %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get suggestion: %w", err)
	}

	return s, nil
}

// ListRecent returns the most recent suggestions, newest first
func (r *PostgresSuggestionRepository) ListRecent(ctx context.Context, limit int) ([]models.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC
		LIMIT $1
	`, suggestionColumns, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := make([]models.Suggestion, 0, limit)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	return suggestions, nil
}

// SetAgentReview stores the AI-advisory outcome on a pending suggestion
// without touching its status.
func (r *PostgresSuggestionRepository) SetAgentReview(ctx context.Context, id int64, review *repositories.AgentReviewUpdate) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET agent_decision = $2,
		    agent_confidence = $3,
		    agent_modified_content = $4,
		    agent_response = $5
		WHERE id = $1 AND status = $6
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		id,
		review.Decision,
		review.Confidence,
		review.ModifiedContent,
		review.Response,
		models.SuggestionPending,
	)
	if err != nil {
		return fmt.Errorf("set agent review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending suggestion %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkDecided transitions a pending suggestion to a terminal status. The
// status = pending predicate makes concurrent decisions race-safe: the
// loser updates zero rows and gets ErrNotFound.
func (r *PostgresSuggestionRepository) MarkDecided(ctx context.Context, id int64, d *repositories.DecisionUpdate) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2,
		    reviewed_by = $3,
		    reviewed_at = $4,
		    review_note = $5,
		    revision_id = $6
		WHERE id = $1 AND status = $7
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		id,
		d.Status,
		d.ReviewedBy,
		d.ReviewedAt,
		d.ReviewNote,
		d.RevisionID,
		models.SuggestionPending,
	)
	if err != nil {
		return fmt.Errorf("mark suggestion decided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending suggestion %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// scanTarget abstracts pgx.Row and pgx.Rows for scanSuggestion.
type scanTarget interface {
	Scan(dest ...interface{}) error
}

func scanSuggestion(row scanTarget) (*models.Suggestion, error) {
	var s models.Suggestion
	err := row.Scan(
		&s.ID,
		&s.WorkID,
		&s.NodeID,
		&s.NodeType,
		&s.NodeNumber,
		&s.CurrentContent,
		&s.SuggestedContent,
		&s.UserReason,
		&s.SubmitterEmail,
		&s.Status,
		&s.Metadata,
		&s.AgentDecision,
		&s.AgentConfidence,
		&s.AgentModifiedContent,
		&s.AgentResponse,
		&s.ReviewedBy,
		&s.ReviewedAt,
		&s.ReviewNote,
		&s.RevisionID,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
