package handler

import (
	"context"
	"net/http"

	"studio/internal/api/v1/dto"
	"studio/internal/api/v1/operation"
	"studio/internal/middleware"
	"studio/internal/model"
	"studio/internal/service"
	"studio/internal/storage"
	"studio/internal/submission"
	"studio/internal/wizard"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// maxVideoUpload bounds the multipart body for a single video upload.
const maxVideoUpload = 4 << 30

type WizardHandler struct {
	wizardService service.WizardService
	logger        zerolog.Logger
}

func NewWizardHandler(wizardService service.WizardService, logger zerolog.Logger) *WizardHandler {
	return &WizardHandler{
		wizardService: wizardService,
		logger:        logger,
	}
}

func stateDTO(s wizard.Snapshot) dto.WizardStateDTO {
	return dto.WizardStateDTO{
		CourseID:    s.CourseID,
		Editing:     s.Editing,
		ActiveStep:  s.Active.String(),
		ActiveIndex: int(s.Active),
		Steps:       s.Steps,
		Draft:       s.Draft,
		Submission:  string(s.Submission),
		LastError:   s.LastError,
	}
}

// session resolves the caller's open wizard.
func (h *WizardHandler) session(ctx context.Context) (*wizard.Controller, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ctrl, err := h.wizardService.Session(userID)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return ctrl, nil
}

// withSession runs fn against the caller's session and returns the resulting state.
func (h *WizardHandler) withSession(ctx context.Context, fn func(*wizard.Controller) error) (*operation.WizardStateOutput, error) {
	ctrl, err := h.session(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(ctrl); err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.WizardStateOutput{Body: stateDTO(ctrl.Snapshot())}, nil
}

func (h *WizardHandler) navigate(ctx context.Context, fn func(*wizard.Controller) (bool, error)) (*operation.NavigationOutput, error) {
	ctrl, err := h.session(ctx)
	if err != nil {
		return nil, err
	}
	advanced, err := fn(ctrl)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.NavigationOutput{Body: dto.NavigationDTO{Advanced: advanced, State: stateDTO(ctrl.Snapshot())}}, nil
}

// Session Operations

func (h *WizardHandler) StartSession(ctx context.Context, input *operation.StartSessionInput) (*operation.WizardStateOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ctrl, err := h.wizardService.StartSession(ctx, userID, middleware.Token(ctx), input.Body.CourseID)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.WizardStateOutput{Body: stateDTO(ctrl.Snapshot())}, nil
}

func (h *WizardHandler) GetWizard(ctx context.Context, input *operation.GetWizardInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(*wizard.Controller) error { return nil })
}

func (h *WizardHandler) EndSession(ctx context.Context, input *operation.EndSessionInput) (*operation.EndSessionOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.wizardService.EndSession(ctx, userID, input.Discard); err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.EndSessionOutput{}, nil
}

// Navigation Operations

func (h *WizardHandler) Next(ctx context.Context, input *operation.NavigateInput) (*operation.NavigationOutput, error) {
	return h.navigate(ctx, func(c *wizard.Controller) (bool, error) { return c.Advance(), nil })
}

func (h *WizardHandler) Back(ctx context.Context, input *operation.NavigateInput) (*operation.NavigationOutput, error) {
	return h.navigate(ctx, func(c *wizard.Controller) (bool, error) { return c.Retreat(), nil })
}

func (h *WizardHandler) Jump(ctx context.Context, input *operation.JumpInput) (*operation.NavigationOutput, error) {
	step, err := model.ParseStep(input.Step)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return h.navigate(ctx, func(c *wizard.Controller) (bool, error) { return c.JumpTo(step) })
}

// Draft Operations

func (h *WizardHandler) PatchDraft(ctx context.Context, input *operation.PatchDraftInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error { return c.MergeStepData(input.Body) })
}

func (h *WizardHandler) AddTag(ctx context.Context, input *operation.AddTagInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error { return c.AddTag(input.Body.Tag) })
}

func (h *WizardHandler) RemoveTag(ctx context.Context, input *operation.RemoveTagInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error { return c.RemoveTag(input.Tag) })
}

// Lecture Operations

func (h *WizardHandler) AddLecture(ctx context.Context, input *operation.AddLectureInput) (*operation.LectureOutput, error) {
	ctrl, err := h.session(ctx)
	if err != nil {
		return nil, err
	}
	lecture, err := ctrl.AddLecture(wizard.LectureInput{
		Title:           input.Body.Title,
		Description:     input.Body.Description,
		Type:            model.LectureType(input.Body.Type),
		DurationMinutes: input.Body.DurationMinutes,
		IsFreePreview:   input.Body.IsFreePreview,
	})
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.LectureOutput{Body: lecture}, nil
}

func (h *WizardHandler) UpdateLecture(ctx context.Context, input *operation.UpdateLectureInput) (*operation.LectureOutput, error) {
	ctrl, err := h.session(ctx)
	if err != nil {
		return nil, err
	}
	patch := wizard.LecturePatch{
		Title:           input.Body.Title,
		Description:     input.Body.Description,
		DurationMinutes: input.Body.DurationMinutes,
		IsFreePreview:   input.Body.IsFreePreview,
	}
	if input.Body.Type != nil {
		t := model.LectureType(*input.Body.Type)
		patch.Type = &t
	}
	lecture, err := ctrl.UpdateLecture(input.LectureID, patch)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.LectureOutput{Body: lecture}, nil
}

func (h *WizardHandler) RemoveLecture(ctx context.Context, input *operation.RemoveLectureInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error { return c.RemoveLecture(input.LectureID) })
}

func (h *WizardHandler) MoveLecture(ctx context.Context, input *operation.MoveLectureInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error {
		return c.MoveLecture(input.LectureID, input.Body.Position)
	})
}

func (h *WizardHandler) AssignVideo(ctx context.Context, input *operation.AssignVideoInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error {
		return c.AssignVideo(input.LectureID, input.Body.VideoID)
	})
}

// Resource and Video Operations

func (h *WizardHandler) SetResourceVisibility(ctx context.Context, input *operation.ResourceVisibilityInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error {
		return c.SetResourceVisibility(input.ResourceID, input.Body.IsPublic)
	})
}

func (h *WizardHandler) RemoveResource(ctx context.Context, input *operation.RemoveResourceInput) (*operation.WizardStateOutput, error) {
	return h.withSession(ctx, func(c *wizard.Controller) error { return c.RemoveResource(input.ResourceID) })
}

func (h *WizardHandler) RefreshVideo(ctx context.Context, input *operation.RefreshVideoInput) (*operation.RefreshVideoOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.wizardService.WatchVideo(userID, middleware.Token(ctx), input.VideoID); err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.RefreshVideoOutput{}, nil
}

// UploadResource accepts a multipart form with "file", an optional
// "lecture_id" and an optional "is_public" flag. It is mounted as a raw
// handler so the file is streamed instead of buffered by the API layer.
func (h *WizardHandler) UploadResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxResourceSize+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, huma.Error400BadRequest("Multipart field 'file' is required"), h.logger)
		return
	}
	defer file.Close()
	if header.Size > storage.MaxResourceSize {
		writeError(w, storage.ErrTooLarge, h.logger)
		return
	}

	isPublic := r.FormValue("is_public") == "true"
	res, err := h.wizardService.UploadResource(r.Context(), userID, middleware.Token(r.Context()),
		r.FormValue("lecture_id"), header.Filename, file, isPublic)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// UploadVideo accepts a multipart form with "file" and starts processing checks.
func (h *WizardHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxVideoUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, huma.Error400BadRequest("Multipart field 'file' is required"), h.logger)
		return
	}
	defer file.Close()

	v, err := h.wizardService.UploadVideo(r.Context(), userID, middleware.Token(r.Context()), header.Filename, header.Size, file)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusAccepted, v)
}

// Submission Operations

func (h *WizardHandler) Submit(ctx context.Context, input *operation.SubmitInput) (*operation.SubmitOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	mode, err := submission.ParseMode(input.Body.Mode)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	course, err := h.wizardService.Submit(ctx, userID, middleware.Token(ctx), mode)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Str("mode", string(mode)).Msg("Course submission failed")
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.SubmitOutput{Body: *course}, nil
}
