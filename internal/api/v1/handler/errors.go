package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"studio/internal/gateway"
	"studio/internal/middleware"
	"studio/internal/model"
	"studio/internal/service"
	"studio/internal/storage"
	"studio/internal/submission"
	"studio/internal/wizard"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

func getUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("User ID not found in context")
	}
	return userID, nil
}

// toHTTPError maps service and domain errors onto API errors. Unknown errors
// become a 500 and are logged.
func toHTTPError(err error, logger zerolog.Logger) error {
	var (
		incomplete *wizard.IncompleteError
		critical   *service.CriticalPaymentError
		payment    *service.PaymentError
		apiErr     *gateway.APIError
	)
	switch {
	case errors.As(err, &incomplete):
		details := make([]error, 0, len(incomplete.Failing))
		for _, step := range model.Steps {
			for _, msg := range incomplete.Failing[step] {
				details = append(details, &huma.ErrorDetail{Location: "steps." + step.String(), Message: msg})
			}
		}
		return huma.Error422UnprocessableEntity(incomplete.Error(), details...)
	case errors.As(err, &critical):
		logger.Error().Err(critical.Err).Str("payment_reference", critical.PaymentReference).Msg("Enrollment failed after payment")
		return huma.Error500InternalServerError(critical.Error())
	case errors.As(err, &payment):
		return huma.NewError(http.StatusPaymentRequired, payment.Message)
	case errors.Is(err, service.ErrNoSession), errors.Is(err, wizard.ErrClosed):
		return huma.Error404NotFound("No open wizard session")
	case errors.Is(err, wizard.ErrLectureNotFound), errors.Is(err, wizard.ErrResourceNotFound),
		errors.Is(err, wizard.ErrVideoNotFound), errors.Is(err, service.ErrUnknownLecture):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, wizard.ErrSubmitting), errors.Is(err, wizard.ErrSubmitted),
		errors.Is(err, submission.ErrInFlight), errors.Is(err, submission.ErrAlreadyStored):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, wizard.ErrInvalidStep), errors.Is(err, wizard.ErrInvalidLectureType),
		errors.Is(err, wizard.ErrNotVideoLecture), errors.Is(err, wizard.ErrPositionOutOfRange),
		errors.Is(err, wizard.ErrDuplicateLecture), errors.Is(err, wizard.ErrVideoInUse):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrPaymentMismatch):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		return huma.NewError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusNotFound:
			return huma.Error404NotFound(apiErr.Message)
		case http.StatusForbidden:
			return huma.Error403Forbidden(apiErr.Message)
		case http.StatusUnauthorized:
			return huma.Error401Unauthorized(apiErr.Message)
		}
		return huma.Error502BadGateway(submission.RemoteMessage(err))
	}
	logger.Error().Err(err).Msg("Unhandled request error")
	return huma.Error500InternalServerError("Internal server error")
}

// writeError renders err for handlers mounted outside huma.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var se huma.StatusError
	if !errors.As(err, &se) {
		se = toHTTPError(err, logger).(huma.StatusError)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(se.GetStatus())
	_ = json.NewEncoder(w).Encode(se)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
