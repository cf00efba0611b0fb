package service

import (
	"context"
	"errors"

	"studio/internal/gateway"
	"studio/internal/model"
)

var (
	ErrNoSession    = errors.New("no wizard session for user")
	ErrForbidden    = errors.New("not allowed to access this course")
	ErrAccessDenied = errors.New("no access to this lecture")
)

// CourseGateway is the part of the remote course API the services read from.
type CourseGateway interface {
	GetCourse(ctx context.Context, token, courseID string) (*model.Course, error)
	ListCourses(ctx context.Context, token string, q gateway.ListQuery) ([]model.Course, error)
	GetCourseAccess(ctx context.Context, token, courseID string) (model.AccessLevel, error)
	Enroll(ctx context.Context, token, courseID string, body gateway.EnrollRequest) (*model.Enrollment, error)
}
