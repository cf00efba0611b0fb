package router

import (
	"net/http"
	"os"
	"strings"

	"studio/internal/api/v1/handler"
	"studio/internal/config"
	"studio/internal/middleware"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const apiPrefix = "/v1"

// Handlers groups everything the API mounts.
type Handlers struct {
	Wizard   *handler.WizardHandler
	Course   *handler.CourseHandler
	Checkout *handler.CheckoutHandler
	Progress *handler.ProgressHandler
}

// publicPath reports whether a /v1-relative path skips JWT auth.
func publicPath(path string) bool {
	switch path {
	case "/openapi.json", "/openapi.yaml", "/docs", "/webhooks/stripe":
		return true
	}
	return strings.HasPrefix(path, "/schemas")
}

// SetupHumaAPI creates the Huma API mounted under /v1 and returns the root
// handler together with the API for route registration.
func SetupHumaAPI(
	cfg *config.Config,
	authMiddleware func(http.Handler) http.Handler,
	h Handlers,
	logger zerolog.Logger,
) (http.Handler, huma.API) {
	apiRouter := chi.NewRouter()

	apiRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(strings.TrimPrefix(r.URL.Path, apiPrefix)) {
				next.ServeHTTP(w, r)
				return
			}
			authMiddleware(next).ServeHTTP(w, r)
		})
	})

	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("Course Studio API v1", version)
	humaConfig.Info.Description = "Course authoring wizard, checkout and learner progress"
	humaConfig.Servers = []*huma.Server{{URL: strings.TrimRight(cfg.APIBaseURL, "/") + apiPrefix}}

	api := humachi.New(apiRouter, humaConfig)

	// Multipart uploads and the Stripe webhook need the raw request body.
	apiRouter.Post("/wizard/resources", h.Wizard.UploadResource)
	apiRouter.Post("/wizard/videos", h.Wizard.UploadVideo)
	apiRouter.Post("/webhooks/stripe", h.Checkout.StripeWebhook)

	root := chi.NewRouter()
	root.Use(middleware.LoggerMiddleware(logger))
	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.Mount(apiPrefix, apiRouter)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Info().Str("version", version).Msg("Huma API initialized for /v1")
	return c.Handler(root), api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(api huma.API, h Handlers, logger zerolog.Logger) {
	logger.Info().Msg("Registering routes")

	// ========== WIZARD SESSION ==========
	huma.Register(api, huma.Operation{
		OperationID:   "startWizard",
		Method:        http.MethodPost,
		Path:          "/wizard/sessions",
		Summary:       "Start a wizard session",
		Description:   "Opens a course-creation session, or an edit session when course_id is given. Replaces any open session.",
		Tags:          []string{"wizard"},
		DefaultStatus: http.StatusCreated,
	}, h.Wizard.StartSession)

	huma.Register(api, huma.Operation{
		OperationID: "getWizard",
		Method:      http.MethodGet,
		Path:        "/wizard",
		Summary:     "Get wizard state",
		Description: "Returns the active step, per-step state and the current draft",
		Tags:        []string{"wizard"},
	}, h.Wizard.GetWizard)

	huma.Register(api, huma.Operation{
		OperationID:   "endWizard",
		Method:        http.MethodDelete,
		Path:          "/wizard",
		Summary:       "Close the wizard session",
		Tags:          []string{"wizard"},
		DefaultStatus: http.StatusNoContent,
	}, h.Wizard.EndSession)

	// ========== NAVIGATION ==========
	huma.Register(api, huma.Operation{
		OperationID: "wizardNext",
		Method:      http.MethodPost,
		Path:        "/wizard/next",
		Summary:     "Advance to the next step",
		Description: "Validates the active step. On errors the wizard stays and the errors are returned in the state.",
		Tags:        []string{"wizard"},
	}, h.Wizard.Next)

	huma.Register(api, huma.Operation{
		OperationID: "wizardBack",
		Method:      http.MethodPost,
		Path:        "/wizard/back",
		Summary:     "Return to the previous step",
		Tags:        []string{"wizard"},
	}, h.Wizard.Back)

	huma.Register(api, huma.Operation{
		OperationID: "wizardJump",
		Method:      http.MethodPost,
		Path:        "/wizard/jump/{step}",
		Summary:     "Jump to a step",
		Description: "Earlier steps are always reachable. Later steps require the active step to validate.",
		Tags:        []string{"wizard"},
	}, h.Wizard.Jump)

	// ========== DRAFT ==========
	huma.Register(api, huma.Operation{
		OperationID: "patchDraft",
		Method:      http.MethodPatch,
		Path:        "/wizard/draft",
		Summary:     "Merge fields into the draft",
		Tags:        []string{"draft"},
	}, h.Wizard.PatchDraft)

	huma.Register(api, huma.Operation{
		OperationID: "addTag",
		Method:      http.MethodPost,
		Path:        "/wizard/tags",
		Summary:     "Add a tag",
		Tags:        []string{"draft"},
	}, h.Wizard.AddTag)

	huma.Register(api, huma.Operation{
		OperationID: "removeTag",
		Method:      http.MethodDelete,
		Path:        "/wizard/tags/{tag}",
		Summary:     "Remove a tag",
		Tags:        []string{"draft"},
	}, h.Wizard.RemoveTag)

	// ========== CURRICULUM ==========
	huma.Register(api, huma.Operation{
		OperationID:   "addLecture",
		Method:        http.MethodPost,
		Path:          "/wizard/lectures",
		Summary:       "Add a lecture",
		Tags:          []string{"curriculum"},
		DefaultStatus: http.StatusCreated,
	}, h.Wizard.AddLecture)

	huma.Register(api, huma.Operation{
		OperationID: "updateLecture",
		Method:      http.MethodPut,
		Path:        "/wizard/lectures/{lectureId}",
		Summary:     "Update a lecture",
		Tags:        []string{"curriculum"},
	}, h.Wizard.UpdateLecture)

	huma.Register(api, huma.Operation{
		OperationID: "removeLecture",
		Method:      http.MethodDelete,
		Path:        "/wizard/lectures/{lectureId}",
		Summary:     "Remove a lecture",
		Tags:        []string{"curriculum"},
	}, h.Wizard.RemoveLecture)

	huma.Register(api, huma.Operation{
		OperationID: "moveLecture",
		Method:      http.MethodPost,
		Path:        "/wizard/lectures/{lectureId}/move",
		Summary:     "Reorder a lecture",
		Tags:        []string{"curriculum"},
	}, h.Wizard.MoveLecture)

	huma.Register(api, huma.Operation{
		OperationID: "assignVideo",
		Method:      http.MethodPost,
		Path:        "/wizard/lectures/{lectureId}/video",
		Summary:     "Attach an uploaded video to a lecture",
		Tags:        []string{"curriculum"},
	}, h.Wizard.AssignVideo)

	huma.Register(api, huma.Operation{
		OperationID:   "refreshVideo",
		Method:        http.MethodPost,
		Path:          "/wizard/videos/{videoId}/refresh",
		Summary:       "Restart video processing checks",
		Tags:          []string{"curriculum"},
		DefaultStatus: http.StatusAccepted,
	}, h.Wizard.RefreshVideo)

	// ========== RESOURCES ==========
	huma.Register(api, huma.Operation{
		OperationID: "setResourceVisibility",
		Method:      http.MethodPatch,
		Path:        "/wizard/resources/{resourceId}",
		Summary:     "Change resource visibility",
		Tags:        []string{"resources"},
	}, h.Wizard.SetResourceVisibility)

	huma.Register(api, huma.Operation{
		OperationID: "removeResource",
		Method:      http.MethodDelete,
		Path:        "/wizard/resources/{resourceId}",
		Summary:     "Remove a resource",
		Tags:        []string{"resources"},
	}, h.Wizard.RemoveResource)

	// ========== SUBMISSION ==========
	huma.Register(api, huma.Operation{
		OperationID: "submitCourse",
		Method:      http.MethodPost,
		Path:        "/wizard/submit",
		Summary:     "Save or publish the course",
		Description: "Validates every step, then creates or updates the course. An incomplete draft returns 422 with the failing steps.",
		Tags:        []string{"wizard"},
	}, h.Wizard.Submit)

	// ========== COURSES ==========
	huma.Register(api, huma.Operation{
		OperationID: "listCourses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List courses",
		Tags:        []string{"courses"},
	}, h.Course.ListCourses)

	huma.Register(api, huma.Operation{
		OperationID: "getCourse",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}",
		Summary:     "Get a course",
		Tags:        []string{"courses"},
	}, h.Course.GetCourse)

	// ========== CHECKOUT ==========
	huma.Register(api, huma.Operation{
		OperationID: "createCheckout",
		Method:      http.MethodPost,
		Path:        "/checkout/{courseId}",
		Summary:     "Start a course purchase",
		Description: "Creates a Stripe payment intent. Free courses are enrolled immediately.",
		Tags:        []string{"checkout"},
	}, h.Checkout.CreateCheckout)

	huma.Register(api, huma.Operation{
		OperationID: "finalizeCheckout",
		Method:      http.MethodPost,
		Path:        "/checkout/intents/{paymentIntentId}/finalize",
		Summary:     "Finalize a purchase",
		Description: "Enrolls the learner once the payment has succeeded. Safe to call more than once.",
		Tags:        []string{"checkout"},
	}, h.Checkout.FinalizeCheckout)

	// ========== PROGRESS ==========
	huma.Register(api, huma.Operation{
		OperationID: "recordProgress",
		Method:      http.MethodPut,
		Path:        "/progress/{courseId}/lectures/{lectureId}",
		Summary:     "Record lecture progress",
		Tags:        []string{"progress"},
	}, h.Progress.RecordProgress)

	huma.Register(api, huma.Operation{
		OperationID: "getProgress",
		Method:      http.MethodGet,
		Path:        "/progress/{courseId}",
		Summary:     "Get course progress",
		Tags:        []string{"progress"},
	}, h.Progress.GetProgress)
}
