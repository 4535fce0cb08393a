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

// PostgresRevisionRepository implements the RevisionRepository interface.
// Revisions are append-only; this repository deliberately has no update
// or delete surface.
type PostgresRevisionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(config *RepositoryConfig) repositories.RevisionRepository {
	return &PostgresRevisionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create appends a revision record
func (r *PostgresRevisionRepository) Create(ctx context.Context, rev *models.Revision) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			work_id, node_id, node_type, node_number,
			old_content, new_content, revision_type, reason,
			suggestion_id, actor_type, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		rev.WorkID,
		rev.NodeID,
		rev.NodeType,
		rev.NodeNumber,
		rev.OldContent,
		rev.NewContent,
		rev.RevisionType,
		rev.Reason,
		rev.SuggestionID,
		rev.ActorType,
		rev.CreatedBy,
	).Scan(&rev.ID, &rev.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("node %d: %w", rev.NodeID, domain.ErrNotFound)
		}
		return fmt.Errorf("create revision: %w", err)
	}

	return nil
}

// ListByNode returns a node's revisions, newest first
func (r *PostgresRevisionRepository) ListByNode(ctx context.Context, nodeID int64, limit int) ([]models.Revision, error) {
	query := fmt.Sprintf(`
		SELECT id, work_id, node_id, node_type, node_number,
		       old_content, new_content, revision_type, reason,
		       suggestion_id, actor_type, created_by, created_at
		FROM %s
		WHERE node_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.Revisions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, nodeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	revisions := make([]models.Revision, 0, limit)
	for rows.Next() {
		var rev models.Revision
		err := rows.Scan(
			&rev.ID,
			&rev.WorkID,
			&rev.NodeID,
			&rev.NodeType,
			&rev.NodeNumber,
			&rev.OldContent,
			&rev.NewContent,
			&rev.RevisionType,
			&rev.Reason,
			&rev.SuggestionID,
			&rev.ActorType,
			&rev.CreatedBy,
			&rev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}

	return revisions, nil
}
