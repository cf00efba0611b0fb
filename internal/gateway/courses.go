package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"studio/internal/model"
)

// CourseRequest is the wire body for course create and update calls.
type CourseRequest struct {
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Category          string             `json:"category"`
	Level             string             `json:"level"`
	Price             float64            `json:"price"`
	Currency          string             `json:"currency"`
	Language          string             `json:"language"`
	EstimatedDuration float64            `json:"estimated_duration"`
	LearningOutcomes  []string           `json:"learning_outcomes"`
	Requirements      []string           `json:"requirements"`
	Tags              []string           `json:"tags"`
	Lectures          []model.Lecture    `json:"lectures"`
	Resources         []model.Resource   `json:"resources"`
	Status            model.CourseStatus `json:"status"`
	PublishAt         *time.Time         `json:"publish_at,omitempty"`
	EnrollmentStart   *time.Time         `json:"enrollment_start,omitempty"`
	EnrollmentEnd     *time.Time         `json:"enrollment_end,omitempty"`
	MaxEnrollments    int                `json:"max_enrollments"`
	Features          model.Features     `json:"features"`
	ThumbnailURL      string             `json:"thumbnail_url,omitempty"`
}

// ListQuery filters a course listing.
type ListQuery struct {
	InstructorID string
	Category     string
	Page         int
	Limit        int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.InstructorID != "" {
		v.Set("instructor_id", q.InstructorID)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// CacheKey identifies the listing in the course-list cache.
func (q ListQuery) CacheKey() string {
	return q.values().Encode()
}

func (c *Client) CreateCourse(ctx context.Context, token string, body CourseRequest) (*model.Course, error) {
	var course model.Course
	if err := c.call(ctx, token, http.MethodPost, "/courses", body, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, token, courseID string, body CourseRequest) (*model.Course, error) {
	var course model.Course
	path := "/courses/" + url.PathEscape(courseID)
	if err := c.call(ctx, token, http.MethodPut, path, body, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) GetCourse(ctx context.Context, token, courseID string) (*model.Course, error) {
	var course model.Course
	path := "/courses/" + url.PathEscape(courseID)
	if err := c.call(ctx, token, http.MethodGet, path, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) ListCourses(ctx context.Context, token string, q ListQuery) ([]model.Course, error) {
	path := "/courses"
	if qs := q.values().Encode(); qs != "" {
		path += "?" + qs
	}
	var courses []model.Course
	if err := c.call(ctx, token, http.MethodGet, path, nil, &courses); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// GetCourseAccess returns the caller's access level for a course.
func (c *Client) GetCourseAccess(ctx context.Context, token, courseID string) (model.AccessLevel, error) {
	var out struct {
		AccessLevel model.AccessLevel `json:"access_level"`
	}
	path := "/courses/" + url.PathEscape(courseID) + "/access"
	if err := c.call(ctx, token, http.MethodGet, path, nil, &out); err != nil {
		return model.AccessNone, err
	}
	if out.AccessLevel == "" {
		return model.AccessNone, nil
	}
	return out.AccessLevel, nil
}

// EnrollRequest records a learner enrollment, optionally backed by a payment.
type EnrollRequest struct {
	UserID          string `json:"user_id"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

func (c *Client) Enroll(ctx context.Context, token, courseID string, body EnrollRequest) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	path := "/courses/" + url.PathEscape(courseID) + "/enroll"
	if err := c.call(ctx, token, http.MethodPost, path, body, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
