package model

import "time"

// DraftPatch is a partial Draft update. Nil fields are left untouched and
// collection fields replace the existing collection wholesale.
type DraftPatch struct {
	Title             *string  `json:"title,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Category          *string  `json:"category,omitempty"`
	DifficultyLevel   *string  `json:"difficulty_level,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Currency          *string  `json:"currency,omitempty"`
	Language          *string  `json:"language,omitempty"`
	EstimatedDuration *float64 `json:"estimated_duration,omitempty"`

	LearningOutcomes *[]string   `json:"learning_outcomes,omitempty"`
	Requirements     *[]string   `json:"requirements,omitempty"`
	Tags             *[]string   `json:"tags,omitempty"`
	Lectures         *[]Lecture  `json:"lectures,omitempty"`
	Resources        *[]Resource `json:"resources,omitempty"`

	Status          *CourseStatus `json:"status,omitempty"`
	PublishAt       *time.Time    `json:"publish_at,omitempty"`
	EnrollmentStart *time.Time    `json:"enrollment_start,omitempty"`
	EnrollmentEnd   *time.Time    `json:"enrollment_end,omitempty"`
	MaxEnrollments  *int          `json:"max_enrollments,omitempty"`
	Features        *Features     `json:"features,omitempty"`
	ThumbnailURL    *string       `json:"thumbnail_url,omitempty"`
}

// Apply shallow-merges p into d. Tags beyond MaxTags are dropped and lecture
// order numbers are recomputed when the lecture list is replaced.
func (p DraftPatch) Apply(d *Draft) {
	setString(&d.Title, p.Title)
	setString(&d.Description, p.Description)
	setString(&d.Category, p.Category)
	setString(&d.DifficultyLevel, p.DifficultyLevel)
	setString(&d.Currency, p.Currency)
	setString(&d.Language, p.Language)
	setString(&d.ThumbnailURL, p.ThumbnailURL)
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.EstimatedDuration != nil {
		d.EstimatedDuration = *p.EstimatedDuration
	}
	if p.LearningOutcomes != nil {
		d.LearningOutcomes = cloneStrings(*p.LearningOutcomes)
	}
	if p.Requirements != nil {
		d.Requirements = cloneStrings(*p.Requirements)
	}
	if p.Tags != nil {
		tags := cloneStrings(*p.Tags)
		if len(tags) > MaxTags {
			tags = tags[:MaxTags]
		}
		d.Tags = tags
	}
	if p.Lectures != nil {
		d.Lectures = make([]Lecture, len(*p.Lectures))
		copy(d.Lectures, *p.Lectures)
		d.RenumberLectures()
	}
	if p.Resources != nil {
		d.Resources = cloneResources(*p.Resources)
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.PublishAt != nil {
		d.PublishAt = cloneTime(p.PublishAt)
	}
	if p.EnrollmentStart != nil {
		d.EnrollmentStart = cloneTime(p.EnrollmentStart)
	}
	if p.EnrollmentEnd != nil {
		d.EnrollmentEnd = cloneTime(p.EnrollmentEnd)
	}
	if p.MaxEnrollments != nil {
		d.MaxEnrollments = *p.MaxEnrollments
	}
	if p.Features != nil {
		d.Features = *p.Features
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
