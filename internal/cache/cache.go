package cache

import (
	"context"

	"studio/internal/model"
)

// CourseListCache holds course listings per user. Any submission by the user
// invalidates every listing cached for them.
type CourseListCache interface {
	Get(ctx context.Context, userID, query string) ([]model.Course, bool, error)
	Set(ctx context.Context, userID, query string, courses []model.Course) error
	Invalidate(ctx context.Context, userID string) error
}
