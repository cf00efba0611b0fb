package repository

import (
	"context"
	"fmt"

	"studio/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const createProgressTable = `
	CREATE TABLE IF NOT EXISTS lecture_progress (
		user_id          TEXT NOT NULL,
		course_id        TEXT NOT NULL,
		lecture_id       TEXT NOT NULL,
		position_seconds INTEGER NOT NULL DEFAULT 0,
		completed        BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, course_id, lecture_id)
	)
`

// ProgressRepository defines the interface for learner progress storage
type ProgressRepository interface {
	// UpsertProgress stores a position. Completion is sticky: once a lecture
	// is completed it stays completed.
	UpsertProgress(ctx context.Context, p *model.Progress) error
	ListProgress(ctx context.Context, userID, courseID string) ([]model.Progress, error)
}

type progressRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewProgressRepo(pool *pgxpool.Pool, logger zerolog.Logger) ProgressRepository {
	return &progressRepo{pool: pool, logger: logger.With().Str("repository", "ProgressRepository").Logger()}
}

// MigrateProgress creates the progress table if it does not exist.
func MigrateProgress(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createProgressTable); err != nil {
		return fmt.Errorf("failed to create lecture_progress table: %w", err)
	}
	return nil
}

func (r *progressRepo) UpsertProgress(ctx context.Context, p *model.Progress) error {
	query := `
		INSERT INTO lecture_progress (user_id, course_id, lecture_id, position_seconds, completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, course_id, lecture_id) DO UPDATE
		SET position_seconds = EXCLUDED.position_seconds,
		    completed = lecture_progress.completed OR EXCLUDED.completed,
		    updated_at = NOW()
		RETURNING completed, updated_at
	`
	err := r.pool.QueryRow(ctx, query, p.UserID, p.CourseID, p.LectureID, p.PositionSeconds, p.Completed).
		Scan(&p.Completed, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("course_id", p.CourseID).Str("lecture_id", p.LectureID).Msg("Failed to upsert progress")
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func (r *progressRepo) ListProgress(ctx context.Context, userID, courseID string) ([]model.Progress, error) {
	query := `
		SELECT user_id, course_id, lecture_id, position_seconds, completed, updated_at
		FROM lecture_progress
		WHERE user_id = $1 AND course_id = $2
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	out := []model.Progress{}
	for rows.Next() {
		var p model.Progress
		if err := rows.Scan(&p.UserID, &p.CourseID, &p.LectureID, &p.PositionSeconds, &p.Completed, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}
	return out, nil
}
