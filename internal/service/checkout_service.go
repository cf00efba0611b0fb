package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"studio/internal/gateway"
	"studio/internal/model"
	"studio/internal/pubsub"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidSignature = errors.New("stripe webhook signature verification failed")
	ErrPaymentMismatch  = errors.New("payment does not belong to this user")
)

// PaymentError is a payment that did not go through. The learner may retry.
type PaymentError struct {
	Status  string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s: %s", e.Status, e.Message)
}

// CriticalPaymentError means the learner was charged but the enrollment was
// not recorded. It must be resolved by support, never retried silently.
type CriticalPaymentError struct {
	PaymentReference string
	SupportEmail     string
	Err              error
}

func (e *CriticalPaymentError) Error() string {
	return fmt.Sprintf("Your payment was received but we could not complete your enrollment. Please contact %s with payment reference %s.", e.SupportEmail, e.PaymentReference)
}

func (e *CriticalPaymentError) Unwrap() error { return e.Err }

// PaymentIntents is the Stripe payment-intent API.
type PaymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeIntents struct{}

// NewStripeIntents sets the Stripe API key and returns the live intent API.
func NewStripeIntents(secretKey string) PaymentIntents {
	stripe.Key = secretKey
	return stripeIntents{}
}

func (stripeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.New(params)
}

func (stripeIntents) Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, params)
}

// CheckoutStatus is the outcome reported to the learner.
type CheckoutStatus string

const (
	CheckoutRequiresPayment CheckoutStatus = "requires_payment"
	CheckoutPending         CheckoutStatus = "pending"
	CheckoutEnrolled        CheckoutStatus = "enrolled"
)

// CheckoutResult describes the state of a learner's purchase.
type CheckoutResult struct {
	Status          CheckoutStatus    `json:"status"`
	CourseID        string            `json:"course_id"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	ClientSecret    string            `json:"client_secret,omitempty"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	Enrollment      *model.Enrollment `json:"enrollment,omitempty"`
}

// CheckoutService defines the interface for course purchases
type CheckoutService interface {
	// CreateIntent starts a purchase. Free courses are enrolled immediately.
	CreateIntent(ctx context.Context, userID, token, courseID string) (*CheckoutResult, error)
	// Finalize enrolls the learner once the payment succeeded. It is idempotent.
	Finalize(ctx context.Context, userID, token, paymentIntentID string) (*CheckoutResult, error)
	// HandleWebhook verifies and processes a raw Stripe event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type checkoutService struct {
	intents       PaymentIntents
	gw            CourseGateway
	publisher     pubsub.Publisher
	topic         string
	webhookSecret string
	serviceToken  string
	supportEmail  string
	logger        zerolog.Logger

	inflight  singleflight.Group
	mu        sync.Mutex
	finalized map[string]*model.Enrollment
	// critical holds paid intents whose enrollment failed. They wait for
	// support and are never sent to the gateway again.
	critical map[string]*CriticalPaymentError
}

type CheckoutConfig struct {
	WebhookSecret string
	ServiceToken  string
	SupportEmail  string
	Topic         string
}

func NewCheckoutService(intents PaymentIntents, gw CourseGateway, publisher pubsub.Publisher, cfg CheckoutConfig, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		intents:       intents,
		gw:            gw,
		publisher:     publisher,
		topic:         cfg.Topic,
		webhookSecret: cfg.WebhookSecret,
		serviceToken:  cfg.ServiceToken,
		supportEmail:  cfg.SupportEmail,
		logger:        logger.With().Str("service", "CheckoutService").Logger(),
		finalized:     map[string]*model.Enrollment{},
		critical:      map[string]*CriticalPaymentError{},
	}
}

var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true,
	"mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true,
	"xof": true, "xpf": true,
}

// MinorUnits converts a price into the smallest currency unit.
func MinorUnits(price float64, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return int64(math.Round(price))
	}
	return int64(math.Round(price * 100))
}

func (s *checkoutService) CreateIntent(ctx context.Context, userID, token, courseID string) (*CheckoutResult, error) {
	course, err := s.gw.GetCourse(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course %s: %w", courseID, err)
	}
	currency := strings.ToLower(course.Currency)
	if currency == "" {
		currency = "usd"
	}

	amount := MinorUnits(course.Price, currency)
	if amount <= 0 {
		enrollment, err := s.gw.Enroll(ctx, token, courseID, gateway.EnrollRequest{UserID: userID})
		if err != nil {
			return nil, fmt.Errorf("failed to enroll in free course: %w", err)
		}
		s.publishEnrolled(ctx, courseID, userID)
		return &CheckoutResult{Status: CheckoutEnrolled, CourseID: courseID, Currency: currency, Enrollment: enrollment}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(course.Title),
		Metadata:    map[string]string{"user_id": userID, "course_id": courseID},
	}
	params.Context = ctx
	pi, err := s.intents.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("user_id", userID).Msg("Failed to create payment intent")
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &CheckoutResult{
		Status:          CheckoutRequiresPayment,
		CourseID:        courseID,
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          amount,
		Currency:        currency,
	}, nil
}

func (s *checkoutService) Finalize(ctx context.Context, userID, token, paymentIntentID string) (*CheckoutResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.intents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	if pi.Metadata["user_id"] != userID {
		return nil, ErrPaymentMismatch
	}
	return s.settle(ctx, token, pi)
}

// settle maps a payment intent's status onto an enrollment outcome.
func (s *checkoutService) settle(ctx context.Context, token string, pi *stripe.PaymentIntent) (*CheckoutResult, error) {
	courseID := pi.Metadata["course_id"]
	result := &CheckoutResult{
		CourseID:        courseID,
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		enrollment, err := s.enrollOnce(ctx, token, pi)
		if err != nil {
			return nil, err
		}
		result.Status = CheckoutEnrolled
		result.Enrollment = enrollment
		return result, nil
	case stripe.PaymentIntentStatusProcessing:
		result.Status = CheckoutPending
		return result, nil
	case stripe.PaymentIntentStatusCanceled:
		return nil, &PaymentError{Status: string(pi.Status), Message: "The payment was cancelled."}
	default:
		msg := "The payment was not completed. Please try again or use another payment method."
		if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
			msg = pi.LastPaymentError.Msg
		}
		return nil, &PaymentError{Status: string(pi.Status), Message: msg}
	}
}

// enrollOnce enrolls the payer at most once per payment intent. Concurrent
// callers for the same intent share one gateway call.
func (s *checkoutService) enrollOnce(ctx context.Context, token string, pi *stripe.PaymentIntent) (*model.Enrollment, error) {
	if e, ok, err := s.settled(pi.ID); ok {
		return e, err
	}
	v, err, _ := s.inflight.Do(pi.ID, func() (any, error) {
		if e, ok, err := s.settled(pi.ID); ok {
			return e, err
		}
		return s.enroll(ctx, token, pi)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Enrollment), nil
}

// settled reports the recorded outcome for a payment intent, if any.
func (s *checkoutService) settled(id string) (*model.Enrollment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.finalized[id]; ok {
		return e, true, nil
	}
	if cerr, ok := s.critical[id]; ok {
		return nil, true, cerr
	}
	return nil, false, nil
}

func (s *checkoutService) enroll(ctx context.Context, token string, pi *stripe.PaymentIntent) (*model.Enrollment, error) {
	userID := pi.Metadata["user_id"]
	courseID := pi.Metadata["course_id"]
	enrollment, err := s.gw.Enroll(ctx, token, courseID, gateway.EnrollRequest{UserID: userID, PaymentIntentID: pi.ID})
	if err != nil {
		s.logger.Error().Err(err).
			Str("payment_intent_id", pi.ID).
			Str("course_id", courseID).
			Str("user_id", userID).
			Msg("Payment succeeded but enrollment failed, manual resolution required")
		cerr := &CriticalPaymentError{PaymentReference: pi.ID, SupportEmail: s.supportEmail, Err: err}
		s.mu.Lock()
		s.critical[pi.ID] = cerr
		s.mu.Unlock()
		return nil, cerr
	}

	s.mu.Lock()
	s.finalized[pi.ID] = enrollment
	s.mu.Unlock()
	s.publishEnrolled(ctx, courseID, userID)
	s.logger.Info().Str("payment_intent_id", pi.ID).Str("course_id", courseID).Str("user_id", userID).Msg("Learner enrolled")
	return enrollment, nil
}

func (s *checkoutService) publishEnrolled(ctx context.Context, courseID, userID string) {
	if s.publisher == nil {
		return
	}
	ev := pubsub.CourseEvent{Type: pubsub.EventCourseEnrolled, CourseID: courseID, UserID: userID}
	if _, err := pubsub.PublishEvent(ctx, s.publisher, s.topic, ev); err != nil {
		s.logger.Warn().Err(err).Str("course_id", courseID).Msg("Failed to publish enrollment event")
	}
}

func (s *checkoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		return ErrInvalidSignature
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("failed to decode payment_intent data: %w", err)
		}
		if pi.Metadata["course_id"] == "" || pi.Metadata["user_id"] == "" {
			s.logger.Warn().Str("payment_intent_id", pi.ID).Msg("Payment intent without course metadata ignored")
			return nil
		}
		_, err := s.settle(ctx, s.serviceToken, &pi)
		var critical *CriticalPaymentError
		if errors.As(err, &critical) {
			// Acknowledged so Stripe stops redelivering.
			s.logger.Error().Str("payment_intent_id", pi.ID).Str("event_id", event.ID).Msg("Webhook acknowledged for payment awaiting manual enrollment")
			return nil
		}
		return err
	case "payment_intent.payment_failed":
		s.logger.Warn().Str("event_id", event.ID).Msg("Payment failed")
	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("Unhandled Stripe event")
	}
	return nil
}
