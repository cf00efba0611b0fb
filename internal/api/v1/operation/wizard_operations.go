package operation

import (
	"studio/internal/api/v1/dto"
	"studio/internal/model"
)

// Session Operations

type StartSessionInput struct {
	Body dto.StartSessionDTO `json:"body" required:"false"`
}

type WizardStateOutput struct {
	Body dto.WizardStateDTO `json:"body"`
}

type GetWizardInput struct{}

type EndSessionInput struct {
	Discard bool `query:"discard" doc:"Also delete the saved draft"`
}

type EndSessionOutput struct {
	// 204 No Content
}

// Navigation Operations

type NavigateInput struct{}

type JumpInput struct {
	Step string `path:"step" enum:"basics,details,pricing,curriculum,resources,review" doc:"Target step"`
}

type NavigationOutput struct {
	Body dto.NavigationDTO `json:"body"`
}

// Draft Operations

type PatchDraftInput struct {
	Body model.DraftPatch `json:"body"`
}

type AddTagInput struct {
	Body dto.TagDTO `json:"body"`
}

type RemoveTagInput struct {
	Tag string `path:"tag" doc:"Tag to remove"`
}

// Lecture Operations

type AddLectureInput struct {
	Body dto.LectureCreateDTO `json:"body"`
}

type LectureOutput struct {
	Body model.Lecture `json:"body"`
}

type UpdateLectureInput struct {
	LectureID string               `path:"lectureId" doc:"Lecture ID"`
	Body      dto.LectureUpdateDTO `json:"body"`
}

type RemoveLectureInput struct {
	LectureID string `path:"lectureId" doc:"Lecture ID"`
}

type MoveLectureInput struct {
	LectureID string             `path:"lectureId" doc:"Lecture ID"`
	Body      dto.MoveLectureDTO `json:"body"`
}

type AssignVideoInput struct {
	LectureID string             `path:"lectureId" doc:"Lecture ID"`
	Body      dto.AssignVideoDTO `json:"body"`
}

// Resource and Video Operations

type ResourceVisibilityInput struct {
	ResourceID string                    `path:"resourceId" doc:"Resource ID"`
	Body       dto.ResourceVisibilityDTO `json:"body"`
}

type RemoveResourceInput struct {
	ResourceID string `path:"resourceId" doc:"Resource ID"`
}

type RefreshVideoInput struct {
	VideoID string `path:"videoId" doc:"Video ID"`
}

type RefreshVideoOutput struct {
	// 202 Accepted
}

// Submission Operations

type SubmitInput struct {
	Body dto.SubmitDTO `json:"body"`
}

type SubmitOutput struct {
	Body model.Course `json:"body"`
}
