package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"studio/internal/api/v1/dto"
	"studio/internal/draftstore"
	"studio/internal/gateway"
	"studio/internal/middleware"
	"studio/internal/model"
	"studio/internal/service"
	"studio/internal/storage"
	"studio/internal/submission"
	"studio/internal/validation"
	"studio/internal/wizard"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okSubmitter struct{ calls int }

func (s *okSubmitter) Submit(ctx context.Context, req submission.Request) (*model.Course, error) {
	s.calls++
	return &model.Course{ID: "course-1", Title: req.Draft.Title, Status: model.CourseStatusPublished}, nil
}

type echoResources struct{}

func (echoResources) Upload(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return &model.Resource{Filename: filename, Size: int64(len(data)), URL: "https://files.example.com/" + filename, IsPublic: isPublic}, nil
}

type idleVideos struct{}

func (idleVideos) Upload(ctx context.Context, token, filename string, size int64, body io.Reader) (*model.Video, error) {
	return &model.Video{ID: "v1", Filename: filename, Status: model.VideoStatusProcessing}, nil
}

func (idleVideos) Poll(ctx context.Context, token, videoID string) (*model.Video, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newWizardService(t *testing.T, submitter service.Submitter) service.WizardService {
	t.Helper()
	persister := draftstore.NewPersister(draftstore.NewMemoryStore(), zerolog.Nop(),
		draftstore.WithClock(draftstore.NewManualClock()))
	svc := service.NewWizardService(validation.New(), persister, nil, submitter,
		echoResources{}, idleVideos{}, idleVideos{}, zerolog.Nop())
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc
}

func newWizardAPI(t *testing.T, svc service.WizardService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, middleware.WithUser(ctx.Context(), "user-1", "token-1")))
	})

	h := NewWizardHandler(svc, zerolog.Nop())
	huma.Register(api, huma.Operation{OperationID: "start", Method: http.MethodPost, Path: "/wizard/sessions", DefaultStatus: http.StatusCreated}, h.StartSession)
	huma.Register(api, huma.Operation{OperationID: "get", Method: http.MethodGet, Path: "/wizard"}, h.GetWizard)
	huma.Register(api, huma.Operation{OperationID: "next", Method: http.MethodPost, Path: "/wizard/next"}, h.Next)
	huma.Register(api, huma.Operation{OperationID: "jump", Method: http.MethodPost, Path: "/wizard/jump/{step}"}, h.Jump)
	huma.Register(api, huma.Operation{OperationID: "patch", Method: http.MethodPatch, Path: "/wizard/draft"}, h.PatchDraft)
	huma.Register(api, huma.Operation{OperationID: "tag", Method: http.MethodPost, Path: "/wizard/tags"}, h.AddTag)
	huma.Register(api, huma.Operation{OperationID: "lecture", Method: http.MethodPost, Path: "/wizard/lectures", DefaultStatus: http.StatusCreated}, h.AddLecture)
	huma.Register(api, huma.Operation{OperationID: "move", Method: http.MethodPost, Path: "/wizard/lectures/{lectureId}/move"}, h.MoveLecture)
	huma.Register(api, huma.Operation{OperationID: "submit", Method: http.MethodPost, Path: "/wizard/submit"}, h.Submit)
	return api
}

func decode[T any](t *testing.T, body *bytes.Buffer) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body.Bytes(), &v))
	return v
}

func TestWizardNavigation(t *testing.T) {
	api := newWizardAPI(t, newWizardService(t, &okSubmitter{}))

	resp := api.Get("/wizard")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Post("/wizard/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code)
	state := decode[dto.WizardStateDTO](t, resp.Body)
	assert.Equal(t, "basics", state.ActiveStep)
	assert.False(t, state.Editing)

	resp = api.Post("/wizard/next")
	require.Equal(t, http.StatusOK, resp.Code)
	nav := decode[dto.NavigationDTO](t, resp.Body)
	assert.False(t, nav.Advanced)
	assert.Equal(t, "basics", nav.State.ActiveStep)
	assert.NotEmpty(t, nav.State.Steps[0].Errors)

	resp = api.Post("/wizard/jump/pricing")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[dto.NavigationDTO](t, resp.Body).Advanced)
}

func TestWizardDraftEditing(t *testing.T) {
	api := newWizardAPI(t, newWizardService(t, &okSubmitter{}))
	require.Equal(t, http.StatusCreated, api.Post("/wizard/sessions", map[string]any{}).Code)

	resp := api.Patch("/wizard/draft", map[string]any{"title": "Practical Go", "price": -5})
	require.Equal(t, http.StatusOK, resp.Code)
	state := decode[dto.WizardStateDTO](t, resp.Body)
	assert.Equal(t, "Practical Go", state.Draft.Title)
	assert.Equal(t, -5.0, state.Draft.Price)

	for i := 0; i < 11; i++ {
		resp = api.Post("/wizard/tags", map[string]any{"tag": fmt.Sprintf("tag-%d", i)})
		require.Equal(t, http.StatusOK, resp.Code)
	}
	assert.Len(t, decode[dto.WizardStateDTO](t, resp.Body).Draft.Tags, model.MaxTags)

	resp = api.Post("/wizard/lectures", map[string]any{"title": "Intro"})
	require.Equal(t, http.StatusCreated, resp.Code)
	lecture := decode[model.Lecture](t, resp.Body)
	assert.Equal(t, model.LectureTypeVideo, lecture.Type)

	resp = api.Post("/wizard/lectures/"+lecture.ID+"/move", map[string]any{"position": 3})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = api.Post("/wizard/lectures/missing/move", map[string]any{"position": 0})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSubmitIncompleteReturnsFailingSteps(t *testing.T) {
	submitter := &okSubmitter{}
	api := newWizardAPI(t, newWizardService(t, submitter))
	require.Equal(t, http.StatusCreated, api.Post("/wizard/sessions", map[string]any{}).Code)

	resp := api.Post("/wizard/submit", map[string]any{"mode": "publish"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "steps.basics")
	assert.Zero(t, submitter.calls)
}

func TestUploadResource(t *testing.T) {
	svc := newWizardService(t, &okSubmitter{})
	_, err := svc.StartSession(context.Background(), "user-1", "token-1", "")
	require.NoError(t, err)
	h := NewWizardHandler(svc, zerolog.Nop())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "slides.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4 slides"))
	require.NoError(t, mw.WriteField("is_public", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/wizard/resources", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(middleware.WithUser(req.Context(), "user-1", "token-1"))
	rec := httptest.NewRecorder()
	h.UploadResource(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var res model.Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "slides.pdf", res.Filename)
	assert.True(t, res.IsPublic)
	assert.NotEmpty(t, res.ID)

	ctrl, err := svc.Session("user-1")
	require.NoError(t, err)
	assert.Len(t, ctrl.Draft().Resources, 1)
}

func TestUploadResourceWithoutFile(t *testing.T) {
	h := NewWizardHandler(newWizardService(t, &okSubmitter{}), zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/wizard/resources", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), "user-1", "token-1"))
	rec := httptest.NewRecorder()
	h.UploadResource(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToHTTPError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrNoSession, http.StatusNotFound},
		{fmt.Errorf("failed: %w", wizard.ErrSubmitting), http.StatusConflict},
		{wizard.ErrPositionOutOfRange, http.StatusBadRequest},
		{service.ErrAccessDenied, http.StatusForbidden},
		{storage.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{&service.PaymentError{Status: "requires_payment_method", Message: "card declined"}, http.StatusPaymentRequired},
		{&service.CriticalPaymentError{PaymentReference: "pi_1", SupportEmail: "help@example.com", Err: errors.New("boom")}, http.StatusInternalServerError},
		{fmt.Errorf("failed to create course: %w", &gateway.APIError{Status: 400, Message: "title taken"}), http.StatusBadGateway},
		{&gateway.APIError{Status: 404, Message: "no such course"}, http.StatusNotFound},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var se huma.StatusError
		require.True(t, errors.As(toHTTPError(tc.err, zerolog.Nop()), &se), tc.err.Error())
		assert.Equal(t, tc.status, se.GetStatus(), tc.err.Error())
	}

	var se huma.StatusError
	errors.As(toHTTPError(&service.CriticalPaymentError{PaymentReference: "pi_9", SupportEmail: "help@example.com"}, zerolog.Nop()), &se)
	assert.Contains(t, se.Error(), "pi_9")
	assert.Contains(t, se.Error(), "help@example.com")
}

type stubCheckout struct {
	service.CheckoutService
	err error
}

func (s stubCheckout) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.err
}

func TestStripeWebhookStatus(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{service.ErrInvalidSignature, http.StatusBadRequest},
		{errors.New("gateway down"), http.StatusInternalServerError},
	} {
		h := NewCheckoutHandler(stubCheckout{err: tc.err}, zerolog.Nop())
		rec := httptest.NewRecorder()
		h.StripeWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{}`)))
		assert.Equal(t, tc.status, rec.Code)
	}
}
