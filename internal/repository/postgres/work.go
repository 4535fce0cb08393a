package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"peraturan/internal/crossref"
	"peraturan/internal/domain"
	"peraturan/internal/domain/models"
	"peraturan/internal/domain/repositories"
)

// PostgresWorkRepository implements the WorkRepository interface
type PostgresWorkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewWorkRepository creates a new work repository
func NewWorkRepository(config *RepositoryConfig) repositories.WorkRepository {
	return &PostgresWorkRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a work by ID
func (r *PostgresWorkRepository) GetByID(ctx context.Context, id int64) (*models.Work, error) {
	query := fmt.Sprintf(`
		SELECT id, reg_type_code, number, year, slug, title
		FROM %s
		WHERE id = $1
	`, r.tables.Works)

	var work models.Work
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&work.ID,
		&work.RegTypeCode,
		&work.Number,
		&work.Year,
		&work.Slug,
		&work.Title,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("work %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get work: %w", err)
	}

	return &work, nil
}

// SlugPaths builds the citation lookup table: slug key → reader path.
func (r *PostgresWorkRepository) SlugPaths(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT reg_type_code, number, year, slug
		FROM %s
	`, r.tables.Works)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list work slugs: %w", err)
	}
	defer rows.Close()

	lookup := make(map[string]string)
	for rows.Next() {
		var code, number, slug string
		var year int
		if err := rows.Scan(&code, &number, &year, &slug); err != nil {
			return nil, fmt.Errorf("scan work slug: %w", err)
		}
		key := crossref.SlugKey(code, number, strconv.Itoa(year))
		lookup[key] = "/peraturan/" + code + "/" + slug
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work slugs: %w", err)
	}

	return lookup, nil
}
