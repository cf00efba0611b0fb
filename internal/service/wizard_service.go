package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"studio/internal/model"
	"studio/internal/storage"
	"studio/internal/submission"
	"studio/internal/video"
	"studio/internal/wizard"

	"github.com/rs/zerolog"
)

// Submitter stores a draft remotely.
type Submitter interface {
	Submit(ctx context.Context, req submission.Request) (*model.Course, error)
}

type VideoUploader interface {
	Upload(ctx context.Context, token, filename string, size int64, body io.Reader) (*model.Video, error)
}

type VideoPoller interface {
	Poll(ctx context.Context, token, videoID string) (*model.Video, error)
}

// SessionPersister is the draft snapshot store shared by every session.
type SessionPersister interface {
	wizard.DraftPersister
	Flush(ctx context.Context)
}

// WizardService defines the interface for course-creation sessions
type WizardService interface {
	// StartSession opens a new session for the user, replacing any open one.
	// A non-empty courseID opens the course in edit mode.
	StartSession(ctx context.Context, userID, token, courseID string) (*wizard.Controller, error)
	Session(userID string) (*wizard.Controller, error)
	// EndSession closes the user's session. discard also deletes the stored snapshot.
	EndSession(ctx context.Context, userID string, discard bool) error
	UploadResource(ctx context.Context, userID, token, lectureID, filename string, body io.Reader, isPublic bool) (model.Resource, error)
	// UploadVideo sends the file to the provider and watches its processing
	// until the active step changes.
	UploadVideo(ctx context.Context, userID, token, filename string, size int64, body io.Reader) (model.Video, error)
	// WatchVideo restarts processing checks for a known video.
	WatchVideo(userID, token, videoID string) error
	Submit(ctx context.Context, userID, token string, mode submission.Mode) (*model.Course, error)
	// Shutdown closes every session and flushes pending snapshots.
	Shutdown(ctx context.Context)
}

type wizardService struct {
	validator wizard.StepValidator
	persister SessionPersister
	courses   CourseGateway
	submitter Submitter
	resources storage.Uploader
	uploader  VideoUploader
	poller    VideoPoller
	logger    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*wizard.Controller
}

func NewWizardService(
	validator wizard.StepValidator,
	persister SessionPersister,
	courses CourseGateway,
	submitter Submitter,
	resources storage.Uploader,
	uploader VideoUploader,
	poller VideoPoller,
	logger zerolog.Logger,
) WizardService {
	return &wizardService{
		validator: validator,
		persister: persister,
		courses:   courses,
		submitter: submitter,
		resources: resources,
		uploader:  uploader,
		poller:    poller,
		logger:    logger.With().Str("service", "WizardService").Logger(),
		sessions:  map[string]*wizard.Controller{},
	}
}

func (s *wizardService) StartSession(ctx context.Context, userID, token, courseID string) (*wizard.Controller, error) {
	opts := []wizard.Option{wizard.WithLogger(s.logger)}
	if courseID != "" {
		course, err := s.courses.GetCourse(ctx, token, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load course %s: %w", courseID, err)
		}
		if course.InstructorID != "" && course.InstructorID != userID {
			return nil, ErrForbidden
		}
		opts = append(opts, wizard.WithCourse(course))
	}

	ctrl := wizard.New(ctx, userID, s.validator, s.persister, opts...)

	s.mu.Lock()
	prev := s.sessions[userID]
	s.sessions[userID] = ctrl
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	s.logger.Info().Str("user_id", userID).Str("course_id", courseID).Bool("editing", ctrl.Editing()).Msg("Wizard session started")
	return ctrl, nil
}

func (s *wizardService) Session(userID string) (*wizard.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return ctrl, nil
}

func (s *wizardService) EndSession(ctx context.Context, userID string, discard bool) error {
	s.mu.Lock()
	ctrl, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()
	if !ok {
		return ErrNoSession
	}
	ctrl.Close()
	if discard {
		s.persister.Discard(ctx, userID)
	}
	return nil
}

func (s *wizardService) UploadResource(ctx context.Context, userID, token, lectureID, filename string, body io.Reader, isPublic bool) (model.Resource, error) {
	ctrl, err := s.Session(userID)
	if err != nil {
		return model.Resource{}, err
	}
	res, err := s.resources.Upload(ctx, token, filename, body, isPublic)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("filename", filename).Msg("Resource upload failed")
		return model.Resource{}, fmt.Errorf("failed to upload resource: %w", err)
	}
	return ctrl.AddResource(lectureID, *res)
}

func (s *wizardService) UploadVideo(ctx context.Context, userID, token, filename string, size int64, body io.Reader) (model.Video, error) {
	ctrl, err := s.Session(userID)
	if err != nil {
		return model.Video{}, err
	}
	v, err := s.uploader.Upload(ctx, token, filename, size, body)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("filename", filename).Msg("Video upload failed")
		return model.Video{}, fmt.Errorf("failed to upload video: %w", err)
	}
	if err := ctrl.AddVideo(*v); err != nil {
		return model.Video{}, err
	}
	go s.watch(ctrl.StepContext(), ctrl, token, *v)
	return *v, nil
}

func (s *wizardService) WatchVideo(userID, token, videoID string) error {
	ctrl, err := s.Session(userID)
	if err != nil {
		return err
	}
	v, ok := ctrl.Video(videoID)
	if !ok {
		return wizard.ErrVideoNotFound
	}
	if v.Status == model.VideoStatusReady {
		return nil
	}
	v.Status = model.VideoStatusProcessing
	v.Error = ""
	if err := ctrl.UpdateVideo(v); err != nil {
		return err
	}
	go s.watch(ctrl.StepContext(), ctrl, token, v)
	return nil
}

// watch polls until the video settles or ctx, the step context at upload
// time, ends.
func (s *wizardService) watch(ctx context.Context, ctrl *wizard.Controller, token string, v model.Video) {
	log := s.logger.With().Str("user_id", ctrl.UserID()).Str("video_id", v.ID).Logger()

	got, err := s.poller.Poll(ctx, token, v.ID)
	switch {
	case errors.Is(err, context.Canceled):
		log.Debug().Msg("Video polling cancelled")
		return
	case errors.Is(err, video.ErrProcessingTimeout):
		v.Status = model.VideoStatusError
		v.Error = "processing timed out"
	case errors.Is(err, video.ErrProcessingFailed):
		v.Status = model.VideoStatusError
		v.Error = got.Error
	case err != nil:
		v.Status = model.VideoStatusError
		v.Error = err.Error()
	default:
		v.Status = got.Status
		v.Duration = got.Duration
		v.StreamURL = got.StreamURL
		v.Error = ""
	}

	if err := ctrl.UpdateVideo(v); err != nil {
		log.Warn().Err(err).Msg("Failed to record video status")
		return
	}
	log.Info().Str("status", string(v.Status)).Msg("Video processing settled")
}

func (s *wizardService) Submit(ctx context.Context, userID, token string, mode submission.Mode) (*model.Course, error) {
	ctrl, err := s.Session(userID)
	if err != nil {
		return nil, err
	}
	draft, courseID, err := ctrl.BeginSubmit()
	if err != nil {
		return nil, err
	}

	course, err := s.submitter.Submit(ctx, submission.Request{
		UserID:   userID,
		Token:    token,
		CourseID: courseID,
		Mode:     mode,
		Draft:    draft,
	})
	ctrl.EndSubmit(course, err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.sessions[userID] == ctrl {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()
	ctrl.Close()
	return course, nil
}

func (s *wizardService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = map[string]*wizard.Controller{}
	s.mu.Unlock()

	for _, ctrl := range sessions {
		ctrl.Close()
	}
	s.persister.Flush(ctx)
}
