package service

import (
	"context"
	"errors"
	"fmt"

	"studio/internal/model"
	"studio/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownLecture = errors.New("lecture not found in course")

// LectureProgress is one row of a progress summary.
type LectureProgress struct {
	LectureID       string `json:"lecture_id"`
	Title           string `json:"title"`
	OrderNumber     int    `json:"order_number"`
	PositionSeconds int    `json:"position_seconds"`
	Completed       bool   `json:"completed"`
	Locked          bool   `json:"locked"`
}

// ProgressSummary aggregates a learner's progress through a course.
type ProgressSummary struct {
	CourseID          string            `json:"course_id"`
	AccessLevel       model.AccessLevel `json:"access_level"`
	CompletedLectures int               `json:"completed_lectures"`
	TotalLectures     int               `json:"total_lectures"`
	Percent           int               `json:"percent"`
	Lectures          []LectureProgress `json:"lectures"`
}

// ProgressService defines the interface for learner progress
type ProgressService interface {
	// RecordProgress stores a playback position, gated by the learner's access level.
	RecordProgress(ctx context.Context, userID, token string, p model.Progress) (*model.Progress, error)
	Summary(ctx context.Context, userID, token, courseID string) (*ProgressSummary, error)
}

type progressService struct {
	repo   repository.ProgressRepository
	gw     CourseGateway
	logger zerolog.Logger
}

func NewProgressService(repo repository.ProgressRepository, gw CourseGateway, logger zerolog.Logger) ProgressService {
	return &progressService{
		repo:   repo,
		gw:     gw,
		logger: logger.With().Str("service", "ProgressService").Logger(),
	}
}

// CanView reports whether access permits watching lecture.
func CanView(access model.AccessLevel, lecture model.Lecture) bool {
	switch access {
	case model.AccessFull:
		return true
	case model.AccessPreview:
		return lecture.IsFreePreview
	}
	return false
}

// courseAndAccess fetches the course and the caller's access level concurrently.
func (s *progressService) courseAndAccess(ctx context.Context, token, courseID string) (*model.Course, model.AccessLevel, error) {
	var (
		course *model.Course
		access model.AccessLevel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.gw.GetCourse(gctx, token, courseID)
		if err != nil {
			return fmt.Errorf("failed to get course %s: %w", courseID, err)
		}
		course = c
		return nil
	})
	g.Go(func() error {
		a, err := s.gw.GetCourseAccess(gctx, token, courseID)
		if err != nil {
			return fmt.Errorf("failed to get access for course %s: %w", courseID, err)
		}
		access = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, model.AccessNone, err
	}
	return course, access, nil
}

func (s *progressService) RecordProgress(ctx context.Context, userID, token string, p model.Progress) (*model.Progress, error) {
	course, access, err := s.courseAndAccess(ctx, token, p.CourseID)
	if err != nil {
		return nil, err
	}

	var lecture *model.Lecture
	for i := range course.Lectures {
		if course.Lectures[i].ID == p.LectureID {
			lecture = &course.Lectures[i]
			break
		}
	}
	if lecture == nil {
		return nil, ErrUnknownLecture
	}
	if !CanView(access, *lecture) {
		s.logger.Warn().Str("user_id", userID).Str("course_id", p.CourseID).Str("lecture_id", p.LectureID).Str("access", string(access)).Msg("Progress rejected")
		return nil, ErrAccessDenied
	}

	p.UserID = userID
	if p.PositionSeconds < 0 {
		p.PositionSeconds = 0
	}
	if err := s.repo.UpsertProgress(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *progressService) Summary(ctx context.Context, userID, token, courseID string) (*ProgressSummary, error) {
	course, access, err := s.courseAndAccess(ctx, token, courseID)
	if err != nil {
		return nil, err
	}
	if access == model.AccessNone {
		return nil, ErrAccessDenied
	}

	rows, err := s.repo.ListProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	byLecture := make(map[string]model.Progress, len(rows))
	for _, r := range rows {
		byLecture[r.LectureID] = r
	}

	summary := &ProgressSummary{
		CourseID:      courseID,
		AccessLevel:   access,
		TotalLectures: len(course.Lectures),
		Lectures:      make([]LectureProgress, 0, len(course.Lectures)),
	}
	for _, l := range course.Lectures {
		p := byLecture[l.ID]
		summary.Lectures = append(summary.Lectures, LectureProgress{
			LectureID:       l.ID,
			Title:           l.Title,
			OrderNumber:     l.OrderNumber,
			PositionSeconds: p.PositionSeconds,
			Completed:       p.Completed,
			Locked:          !CanView(access, l),
		})
		if p.Completed {
			summary.CompletedLectures++
		}
	}
	if summary.TotalLectures > 0 {
		summary.Percent = summary.CompletedLectures * 100 / summary.TotalLectures
	}
	return summary, nil
}
