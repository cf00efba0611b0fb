package model

import "time"

// Course is a course as the gateway reports it.
type Course struct {
	ID              string       `json:"id"`
	InstructorID    string       `json:"instructor_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Level           string       `json:"level"`
	Price           float64      `json:"price"`
	Currency        string       `json:"currency"`
	Language        string       `json:"language"`
	Status          CourseStatus `json:"status"`
	ThumbnailURL    string       `json:"thumbnail_url,omitempty"`
	Lectures        []Lecture    `json:"lectures,omitempty"`
	EnrollmentCount int          `json:"enrollment_count"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	// Fields only present on full course reads.
	EstimatedDuration float64    `json:"estimated_duration,omitempty"`
	LearningOutcomes  []string   `json:"learning_outcomes,omitempty"`
	Requirements      []string   `json:"requirements,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	Resources         []Resource `json:"resources,omitempty"`
	PublishAt         *time.Time `json:"publish_at,omitempty"`
	EnrollmentStart   *time.Time `json:"enrollment_start,omitempty"`
	EnrollmentEnd     *time.Time `json:"enrollment_end,omitempty"`
	MaxEnrollments    int        `json:"max_enrollments,omitempty"`
	Features          Features   `json:"features"`
}

// ToDraft converts a stored course back into wizard form for edit mode.
func (c *Course) ToDraft() *Draft {
	d := NewDraft()
	d.Title = c.Title
	d.Description = c.Description
	d.Category = c.Category
	if c.Level != "" {
		d.DifficultyLevel = c.Level
	}
	d.Price = c.Price
	if c.Currency != "" {
		d.Currency = c.Currency
	}
	if c.Language != "" {
		d.Language = c.Language
	}
	d.EstimatedDuration = c.EstimatedDuration
	if c.LearningOutcomes != nil {
		d.LearningOutcomes = cloneStrings(c.LearningOutcomes)
	}
	if c.Requirements != nil {
		d.Requirements = cloneStrings(c.Requirements)
	}
	if c.Tags != nil {
		d.Tags = cloneStrings(c.Tags)
	}
	if c.Lectures != nil {
		d.Lectures = make([]Lecture, len(c.Lectures))
		copy(d.Lectures, c.Lectures)
		d.RenumberLectures()
	}
	if c.Resources != nil {
		d.Resources = cloneResources(c.Resources)
	}
	if c.Status != "" {
		d.Status = c.Status
	}
	d.PublishAt = cloneTime(c.PublishAt)
	d.EnrollmentStart = cloneTime(c.EnrollmentStart)
	d.EnrollmentEnd = cloneTime(c.EnrollmentEnd)
	d.MaxEnrollments = c.MaxEnrollments
	d.Features = c.Features
	d.ThumbnailURL = c.ThumbnailURL
	return d
}

// AccessLevel is a learner's permitted visibility into a course.
type AccessLevel string

const (
	AccessNone    AccessLevel = "none"
	AccessPreview AccessLevel = "preview"
	AccessFull    AccessLevel = "full"
)

// Progress is one learner's position in one lecture.
type Progress struct {
	UserID          string    `json:"user_id"`
	CourseID        string    `json:"course_id"`
	LectureID       string    `json:"lecture_id"`
	PositionSeconds int       `json:"position_seconds"`
	Completed       bool      `json:"completed"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Enrollment is the gateway's record of a learner joining a course.
type Enrollment struct {
	ID          string      `json:"id"`
	CourseID    string      `json:"course_id"`
	UserID      string      `json:"user_id"`
	AccessLevel AccessLevel `json:"access_level"`
	CreatedAt   time.Time   `json:"created_at"`
}
