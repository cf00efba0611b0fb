package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studio/internal/gateway"
	"studio/internal/model"
	"studio/internal/pubsub"

	"github.com/rs/zerolog"
)

// Mode selects the status a submission stores the course with.
type Mode string

const (
	ModeDraft   Mode = "draft"
	ModePublish Mode = "publish"
)

// ParseMode accepts "draft" and "publish" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDraft:
		return ModeDraft, nil
	case ModePublish:
		return ModePublish, nil
	}
	return "", fmt.Errorf("unknown submit mode %q", s)
}

func (m Mode) status() model.CourseStatus {
	if m == ModePublish {
		return model.CourseStatusPublished
	}
	return model.CourseStatusDraft
}

// CourseWriter is the part of the gateway used to store courses.
type CourseWriter interface {
	CreateCourse(ctx context.Context, token string, body gateway.CourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, token, courseID string, body gateway.CourseRequest) (*model.Course, error)
}

type ListInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type SnapshotDiscarder interface {
	Discard(ctx context.Context, userID string)
}

// Request is one submission of a draft.
type Request struct {
	UserID   string
	Token    string
	CourseID string // empty for a new course
	Mode     Mode
	Draft    *model.Draft
}

// Adapter maps a draft onto the gateway's course API and runs the
// post-success housekeeping.
type Adapter struct {
	courses   CourseWriter
	lists     ListInvalidator
	snapshots SnapshotDiscarder
	publisher pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

func NewAdapter(courses CourseWriter, lists ListInvalidator, snapshots SnapshotDiscarder, publisher pubsub.Publisher, topic string, logger zerolog.Logger) *Adapter {
	return &Adapter{
		courses:   courses,
		lists:     lists,
		snapshots: snapshots,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "SubmissionAdapter").Logger(),
	}
}

// BuildRequest converts a draft into the gateway wire body.
func BuildRequest(d *model.Draft, mode Mode) gateway.CourseRequest {
	c := d.Clone()
	return gateway.CourseRequest{
		Title:             strings.TrimSpace(c.Title),
		Description:       strings.TrimSpace(c.Description),
		Category:          c.Category,
		Level:             c.DifficultyLevel,
		Price:             c.Price,
		Currency:          strings.ToUpper(c.Currency),
		Language:          c.Language,
		EstimatedDuration: c.EstimatedDuration,
		LearningOutcomes:  c.LearningOutcomes,
		Requirements:      c.Requirements,
		Tags:              c.Tags,
		Lectures:          c.Lectures,
		Resources:         c.Resources,
		Status:            mode.status(),
		PublishAt:         c.PublishAt,
		EnrollmentStart:   c.EnrollmentStart,
		EnrollmentEnd:     c.EnrollmentEnd,
		MaxEnrollments:    c.MaxEnrollments,
		Features:          c.Features,
		ThumbnailURL:      c.ThumbnailURL,
	}
}

// Submit stores the draft remotely with exactly one create or update call.
// On failure the remote error is returned and nothing local changes.
func (a *Adapter) Submit(ctx context.Context, req Request) (*model.Course, error) {
	if req.Draft == nil {
		return nil, errors.New("no draft to submit")
	}
	body := BuildRequest(req.Draft, req.Mode)

	var (
		course *model.Course
		err    error
	)
	if req.CourseID != "" {
		course, err = a.courses.UpdateCourse(ctx, req.Token, req.CourseID, body)
	} else {
		course, err = a.courses.CreateCourse(ctx, req.Token, body)
	}
	if err != nil {
		a.logger.Error().Err(err).Str("user_id", req.UserID).Str("course_id", req.CourseID).Msg("Course submission failed")
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	if course.ID == "" {
		course.ID = req.CourseID
	}

	if err := a.lists.Invalidate(ctx, req.UserID); err != nil {
		a.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("Failed to invalidate course list cache")
	}
	a.snapshots.Discard(ctx, req.UserID)

	if a.publisher != nil {
		ev := pubsub.CourseEvent{
			Type:     pubsub.EventCourseSaved,
			CourseID: course.ID,
			UserID:   req.UserID,
			Status:   string(body.Status),
		}
		if _, err := pubsub.PublishEvent(ctx, a.publisher, a.topic, ev); err != nil {
			a.logger.Warn().Err(err).Str("course_id", course.ID).Msg("Failed to publish course event")
		}
	}

	a.logger.Info().Str("user_id", req.UserID).Str("course_id", course.ID).Str("status", string(body.Status)).Msg("Course saved")
	return course, nil
}

// RemoteMessage extracts the gateway's message from a submission error.
func RemoteMessage(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
