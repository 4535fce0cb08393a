package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"peraturan/internal/domain/repositories"
)

// PostgresChunkRepository implements the ChunkRepository interface over
// the derived legal_chunks search table.
type PostgresChunkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChunkRepository creates a new search chunk repository
func NewChunkRepository(config *RepositoryConfig) repositories.ChunkRepository {
	return &PostgresChunkRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// UpdateContentByNode rewrites the chunk content for a node so search
// never serves text the canonical store has moved past. A node without
// chunks is not an error; not every node is indexed.
func (r *PostgresChunkRepository) UpdateContentByNode(ctx context.Context, nodeID int64, content string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $2
		WHERE node_id = $1
	`, r.tables.Chunks)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, nodeID, content); err != nil {
		return fmt.Errorf("update chunk content: %w", err)
	}

	return nil
}
