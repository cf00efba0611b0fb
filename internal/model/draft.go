package model

import "time"

// CourseStatus is the lifecycle status sent to the gateway.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
)

// MaxTags is the most tags a course may carry. Extra tags are dropped silently.
const MaxTags = 10

// Features holds the optional course feature flags.
type Features struct {
	Certificate           bool `json:"certificate"`
	Discussions           bool `json:"discussions"`
	DownloadableResources bool `json:"downloadable_resources"`
}

// Draft is the in-progress course record owned by one wizard session.
type Draft struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	DifficultyLevel   string  `json:"difficulty_level"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	Language          string  `json:"language"`
	EstimatedDuration float64 `json:"estimated_duration"` // hours

	LearningOutcomes []string   `json:"learning_outcomes"`
	Requirements     []string   `json:"requirements"`
	Tags             []string   `json:"tags"`
	Lectures         []Lecture  `json:"lectures"`
	Resources        []Resource `json:"resources"`
	Videos           []Video    `json:"videos"`

	Status          CourseStatus `json:"status"`
	PublishAt       *time.Time   `json:"publish_at,omitempty"`
	EnrollmentStart *time.Time   `json:"enrollment_start,omitempty"`
	EnrollmentEnd   *time.Time   `json:"enrollment_end,omitempty"`
	MaxEnrollments  int          `json:"max_enrollments"`
	Features        Features     `json:"features"`
	ThumbnailURL    string       `json:"thumbnail_url,omitempty"`
}

// NewDraft returns an empty draft with the wizard's initial defaults.
func NewDraft() *Draft {
	return &Draft{
		DifficultyLevel:  "beginner",
		Currency:         "USD",
		Language:         "English",
		Status:           CourseStatusDraft,
		LearningOutcomes: []string{},
		Requirements:     []string{},
		Tags:             []string{},
		Lectures:         []Lecture{},
		Resources:        []Resource{},
		Videos:           []Video{},
	}
}

// Clone returns a deep copy that shares no memory with d.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.LearningOutcomes = cloneStrings(d.LearningOutcomes)
	c.Requirements = cloneStrings(d.Requirements)
	c.Tags = cloneStrings(d.Tags)
	c.Resources = cloneResources(d.Resources)
	if d.Videos != nil {
		c.Videos = make([]Video, len(d.Videos))
		copy(c.Videos, d.Videos)
	}
	c.Lectures = make([]Lecture, len(d.Lectures))
	for i, l := range d.Lectures {
		l.Resources = cloneResources(l.Resources)
		c.Lectures[i] = l
	}
	c.PublishAt = cloneTime(d.PublishAt)
	c.EnrollmentStart = cloneTime(d.EnrollmentStart)
	c.EnrollmentEnd = cloneTime(d.EnrollmentEnd)
	return &c
}

// RenumberLectures rewrites order numbers as the dense sequence 1..N.
func (d *Draft) RenumberLectures() {
	for i := range d.Lectures {
		d.Lectures[i].OrderNumber = i + 1
	}
}

// LectureIndex returns the position of the lecture with the given id, or -1.
func (d *Draft) LectureIndex(id string) int {
	for i := range d.Lectures {
		if d.Lectures[i].ID == id {
			return i
		}
	}
	return -1
}

// VideoIndex returns the position of the video with the given id, or -1.
func (d *Draft) VideoIndex(id string) int {
	for i := range d.Videos {
		if d.Videos[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneResources(in []Resource) []Resource {
	if in == nil {
		return nil
	}
	out := make([]Resource, len(in))
	copy(out, in)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
