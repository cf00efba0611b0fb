package service

import (
	"context"
	"fmt"

	"studio/internal/cache"
	"studio/internal/gateway"
	"studio/internal/model"

	"github.com/rs/zerolog"
)

// CourseService defines the interface for course listing
type CourseService interface {
	// ListCourses reads through the per-user listing cache.
	ListCourses(ctx context.Context, userID, token string, q gateway.ListQuery) ([]model.Course, error)
	GetCourse(ctx context.Context, token, courseID string) (*model.Course, error)
}

type courseService struct {
	gw     CourseGateway
	cache  cache.CourseListCache
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(gw CourseGateway, listCache cache.CourseListCache, logger zerolog.Logger) CourseService {
	return &courseService{
		gw:     gw,
		cache:  listCache,
		logger: logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) ListCourses(ctx context.Context, userID, token string, q gateway.ListQuery) ([]model.Course, error) {
	key := q.CacheKey()
	courses, ok, err := s.cache.Get(ctx, userID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Course list cache read failed")
	}
	if ok {
		return courses, nil
	}

	courses, err = s.gw.ListCourses(ctx, token, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	if err := s.cache.Set(ctx, userID, key, courses); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Course list cache write failed")
	}
	return courses, nil
}

func (s *courseService) GetCourse(ctx context.Context, token, courseID string) (*model.Course, error) {
	course, err := s.gw.GetCourse(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", courseID, err)
	}
	return course, nil
}
