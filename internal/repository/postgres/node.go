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

// PostgresNodeRepository implements the NodeRepository interface
type PostgresNodeRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewNodeRepository creates a new document node repository
func NewNodeRepository(config *RepositoryConfig) repositories.NodeRepository {
	return &PostgresNodeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a document node by ID
func (r *PostgresNodeRepository) GetByID(ctx context.Context, id int64) (*models.DocumentNode, error) {
	query := fmt.Sprintf(`
		SELECT id, work_id, node_type, number, content_text, revision_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Nodes)

	var node models.DocumentNode
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&node.ID,
		&node.WorkID,
		&node.NodeType,
		&node.Number,
		&node.ContentText,
		&node.RevisionID,
		&node.CreatedAt,
		&node.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("node %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get node: %w", err)
	}

	return &node, nil
}

// UpdateContent sets the node's canonical text and the revision that
// produced it. Callers must run this inside the same transaction that
// created the revision.
func (r *PostgresNodeRepository) UpdateContent(ctx context.Context, id int64, content string, revisionID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content_text = $2, revision_id = $3, updated_at = NOW()
		WHERE id = $1
	`, r.tables.Nodes)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, content, revisionID)
	if err != nil {
		return fmt.Errorf("update node content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("node %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
