package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peraturan/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Works       string
	Nodes       string
	Suggestions string
	Revisions   string
	Chunks      string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Works:       fmt.Sprintf("%sworks", prefix),
		Nodes:       fmt.Sprintf("%sdocument_nodes", prefix),
		Suggestions: fmt.Sprintf("%ssuggestions", prefix),
		Revisions:   fmt.Sprintf("%srevisions", prefix),
		Chunks:      fmt.Sprintf("%slegal_chunks", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool with automatic
// PgBouncer compatibility.
//
// By default pgx uses prepared statements (QueryExecModeCacheStatement),
// but PgBouncer in transaction pooling mode (port 6543 on Supabase) does
// not support them and fails with "prepared statement already exists".
// When port 6543 is detected and the user did not set an explicit mode in
// the connection string, the pool switches to QueryExecModeCacheDescribe,
// which keeps the extended protocol (needed for JSONB encoding of
// map[string]interface{}) while avoiding server-side prepared statements.
//
// Dynamic table prefixes (dev_, test_, prod_) are interpolated into the
// SQL before it reaches the server, so each environment gets its own
// statements; this is safe with every exec mode.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction;
// otherwise the pool. This lets repositories automatically participate in
// transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
