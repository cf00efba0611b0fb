package draftstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createDraftsTable = `
	CREATE TABLE IF NOT EXISTS course_drafts (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresStore keeps snapshots in the course_drafts table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the drafts table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createDraftsTable); err != nil {
		return fmt.Errorf("failed to create course_drafts table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, d *model.Draft) error {
	data, err := encode(d)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO course_drafts (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) (*model.Draft, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM course_drafts WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", key, err)
	}
	return decode(data)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM course_drafts WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}
	return nil
}

// Prune deletes snapshots not updated since before the cutoff and returns how
// many were removed.
func (s *PostgresStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM course_drafts WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}
