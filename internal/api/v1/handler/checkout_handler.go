package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"studio/internal/api/v1/operation"
	"studio/internal/middleware"
	"studio/internal/service"

	"github.com/rs/zerolog"
)

// Stripe caps event payloads well below this.
const maxWebhookBody = 1 << 16

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          zerolog.Logger
}

func NewCheckoutHandler(checkoutService service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

func (h *CheckoutHandler) CreateCheckout(ctx context.Context, input *operation.CreateCheckoutInput) (*operation.CheckoutOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	result, err := h.checkoutService.CreateIntent(ctx, userID, middleware.Token(ctx), input.CourseID)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.CheckoutOutput{Body: *result}, nil
}

func (h *CheckoutHandler) FinalizeCheckout(ctx context.Context, input *operation.FinalizeCheckoutInput) (*operation.CheckoutOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	result, err := h.checkoutService.Finalize(ctx, userID, middleware.Token(ctx), input.PaymentIntentID)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.CheckoutOutput{Body: *result}, nil
}

// StripeWebhook verifies and applies a Stripe event. It needs the raw body for
// signature verification, so it is mounted outside huma and without JWT auth.
func (h *CheckoutHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	err = h.checkoutService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		h.logger.Warn().Err(err).Msg("Rejected Stripe webhook")
		http.Error(w, "Invalid signature", http.StatusBadRequest)
	case err != nil:
		// A non-2xx status makes Stripe retry the delivery.
		h.logger.Error().Err(err).Msg("Failed to process Stripe webhook")
		http.Error(w, "Failed to process event", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
