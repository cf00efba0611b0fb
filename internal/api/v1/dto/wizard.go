package dto

import "studio/internal/model"

type StartSessionDTO struct {
	CourseID string `json:"course_id,omitempty" doc:"Existing course to edit. Empty starts a new course."`
}

// WizardStateDTO is the full wizard view returned by every wizard endpoint.
type WizardStateDTO struct {
	CourseID    string            `json:"course_id,omitempty"`
	Editing     bool              `json:"editing"`
	ActiveStep  string            `json:"active_step"`
	ActiveIndex int               `json:"active_index"`
	Steps       []model.StepState `json:"steps"`
	Draft       *model.Draft      `json:"draft"`
	Submission  string            `json:"submission"`
	LastError   string            `json:"last_error,omitempty"`
}

// NavigationDTO reports the outcome of next, back and jump. For next,
// Advanced means the active step validated; on review the wizard stays put.
type NavigationDTO struct {
	Advanced bool           `json:"advanced"`
	State    WizardStateDTO `json:"state"`
}

type TagDTO struct {
	Tag string `json:"tag" minLength:"1" maxLength:"50"`
}

type LectureCreateDTO struct {
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	Type            string `json:"type,omitempty" enum:"video,quiz,reading,assignment"`
	DurationMinutes int    `json:"duration_minutes,omitempty" minimum:"0"`
	IsFreePreview   bool   `json:"is_free_preview,omitempty"`
}

type LectureUpdateDTO struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Type            *string `json:"type,omitempty" enum:"video,quiz,reading,assignment"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" minimum:"0"`
	IsFreePreview   *bool   `json:"is_free_preview,omitempty"`
}

type MoveLectureDTO struct {
	Position int `json:"position" minimum:"0" doc:"Zero-based target position"`
}

type AssignVideoDTO struct {
	VideoID string `json:"video_id" minLength:"1"`
}

type ResourceVisibilityDTO struct {
	IsPublic bool `json:"is_public"`
}

type SubmitDTO struct {
	Mode string `json:"mode" enum:"draft,publish" default:"publish"`
}
