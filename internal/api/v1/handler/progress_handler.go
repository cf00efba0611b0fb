package handler

import (
	"context"

	"studio/internal/api/v1/operation"
	"studio/internal/middleware"
	"studio/internal/model"
	"studio/internal/service"

	"github.com/rs/zerolog"
)

type ProgressHandler struct {
	progressService service.ProgressService
	logger          zerolog.Logger
}

func NewProgressHandler(progressService service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		logger:          logger,
	}
}

func (h *ProgressHandler) RecordProgress(ctx context.Context, input *operation.RecordProgressInput) (*operation.RecordProgressOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.progressService.RecordProgress(ctx, userID, middleware.Token(ctx), model.Progress{
		UserID:          userID,
		CourseID:        input.CourseID,
		LectureID:       input.LectureID,
		PositionSeconds: input.Body.PositionSeconds,
		Completed:       input.Body.Completed,
	})
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.RecordProgressOutput{Body: *p}, nil
}

func (h *ProgressHandler) GetProgress(ctx context.Context, input *operation.ProgressSummaryInput) (*operation.ProgressSummaryOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := h.progressService.Summary(ctx, userID, middleware.Token(ctx), input.CourseID)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.ProgressSummaryOutput{Body: *summary}, nil
}
