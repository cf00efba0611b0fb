package wizard

import (
	"context"
	"errors"
	"sync"

	"studio/internal/model"
	"studio/internal/submission"

	"github.com/rs/zerolog"
)

// StepValidator returns the blocking errors for one step.
type StepValidator interface {
	Validate(step model.Step, d *model.Draft) []string
}

// DraftPersister is the debounced snapshot store used by create sessions.
type DraftPersister interface {
	Schedule(userID string, d *model.Draft)
	Restore(ctx context.Context, userID string) (*model.Draft, bool)
	Discard(ctx context.Context, userID string)
}

// Controller owns one user's wizard session: the active step, completion
// flags, per-step errors and the draft. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	userID    string
	courseID  string
	editing   bool
	draft     *model.Draft
	active    model.Step
	completed map[model.Step]bool
	errs      map[model.Step][]string

	validator StepValidator
	persister DraftPersister
	attempt   *submission.Attempt
	logger    zerolog.Logger

	root       context.Context
	rootCancel context.CancelFunc
	stepCtx    context.Context
	stepCancel context.CancelFunc
	closed     bool
}

type Option func(*options)

type options struct {
	course *model.Course
	logger zerolog.Logger
}

// WithCourse opens the session in edit mode for an existing course.
func WithCourse(course *model.Course) Option {
	return func(o *options) { o.course = course }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New opens a session. In create mode a stored snapshot for the user replaces
// the initial draft. In edit mode any stored snapshot is discarded and the
// course is loaded instead.
func New(ctx context.Context, userID string, validator StepValidator, persister DraftPersister, opts ...Option) *Controller {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		userID:    userID,
		active:    model.StepBasics,
		completed: map[model.Step]bool{},
		errs:      map[model.Step][]string{},
		validator: validator,
		persister: persister,
		attempt:   submission.NewAttempt(),
		logger:    o.logger.With().Str("service", "WizardController").Str("user_id", userID).Logger(),
	}
	c.root, c.rootCancel = context.WithCancel(context.Background())
	c.stepCtx, c.stepCancel = context.WithCancel(c.root)

	switch {
	case o.course != nil:
		persister.Discard(ctx, userID)
		c.editing = true
		c.courseID = o.course.ID
		c.draft = o.course.ToDraft()
	default:
		if restored, ok := persister.Restore(ctx, userID); ok {
			c.logger.Info().Msg("Restored draft snapshot")
			c.draft = restored
		} else {
			c.draft = model.NewDraft()
		}
	}
	return c
}

func (c *Controller) UserID() string { return c.userID }

// CourseID is the remote id of the course, empty until first saved.
func (c *Controller) CourseID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.courseID
}

func (c *Controller) Editing() bool { return c.editing }

func (c *Controller) Active() model.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Draft returns a detached copy of the draft.
func (c *Controller) Draft() *model.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Errors returns the stored error list for step.
func (c *Controller) Errors(step model.Step) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errs[step]...)
}

// State reports every step in order. Exactly one step is active.
func (c *Controller) State() []model.StepState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() []model.StepState {
	out := make([]model.StepState, 0, len(model.Steps))
	for i, s := range model.Steps {
		out = append(out, model.StepState{
			Step:      s.String(),
			Index:     i,
			Completed: c.completed[s],
			Active:    s == c.active,
			Errors:    append([]string(nil), c.errs[s]...),
		})
	}
	return out
}

// Snapshot is a consistent view of the whole session.
type Snapshot struct {
	CourseID   string
	Editing    bool
	Active     model.Step
	Steps      []model.StepState
	Draft      *model.Draft
	Submission submission.State
	LastError  string
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		CourseID:   c.courseID,
		Editing:    c.editing,
		Active:     c.active,
		Steps:      c.stateLocked(),
		Draft:      c.draft.Clone(),
		Submission: c.attempt.State(),
	}
	if err := c.attempt.LastError(); err != nil {
		s.LastError = submission.RemoteMessage(err)
	}
	return s
}

// StepContext is cancelled when the active step changes or the session closes.
func (c *Controller) StepContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepCtx
}

// Advance validates the active step. On success the step is marked completed
// and the next step becomes active; on failure the errors are stored and the
// step stays. It reports whether the step validated.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if !c.passLocked() {
		return false
	}
	if to, ok := follow(c.active, eventNext); ok {
		c.setActiveLocked(to)
	}
	return true
}

// Retreat moves to the previous step without validating. It reports whether
// the active step changed.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	to, ok := follow(c.active, eventBack)
	if !ok {
		return false
	}
	delete(c.errs, c.active)
	c.setActiveLocked(to)
	return true
}

// JumpTo moves to step. Steps at or before the active one are always
// reachable. Later steps require the active step to validate first.
func (c *Controller) JumpTo(step model.Step) (bool, error) {
	if !step.Valid() {
		return false, ErrInvalidStep
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	if step > c.active && !c.passLocked() {
		return false, nil
	}
	if step != c.active {
		delete(c.errs, c.active)
		c.setActiveLocked(step)
	}
	return true, nil
}

// passLocked runs the active step's validator and records the outcome.
func (c *Controller) passLocked() bool {
	errs := c.validator.Validate(c.active, c.draft)
	if len(errs) > 0 {
		c.errs[c.active] = errs
		return false
	}
	delete(c.errs, c.active)
	c.completed[c.active] = true
	return true
}

func (c *Controller) setActiveLocked(step model.Step) {
	c.stepCancel()
	c.active = step
	c.stepCtx, c.stepCancel = context.WithCancel(c.root)
}

// MergeStepData shallow-merges patch into the draft. A replacement lecture
// list must satisfy the same rules as the lecture operations, otherwise the
// draft is left unchanged.
func (c *Controller) MergeStepData(patch model.DraftPatch) error {
	return c.mutate(func(d *model.Draft) error {
		if patch.Lectures != nil {
			lectures, err := checkLectures(d, *patch.Lectures)
			if err != nil {
				return err
			}
			patch.Lectures = &lectures
		}
		if patch.Resources != nil {
			resources := withResourceIDs(*patch.Resources)
			patch.Resources = &resources
		}
		patch.Apply(d)
		if patch.Lectures != nil {
			for _, v := range d.Videos {
				fillDurations(d, v)
			}
		}
		return nil
	})
}

// mutate applies fn to the draft under the lock and schedules a snapshot.
func (c *Controller) mutate(fn func(d *model.Draft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutableLocked(); err != nil {
		return err
	}
	if err := fn(c.draft); err != nil {
		return err
	}
	if !c.editing {
		c.persister.Schedule(c.userID, c.draft)
	}
	return nil
}

func (c *Controller) mutableLocked() error {
	if c.closed {
		return ErrClosed
	}
	switch c.attempt.State() {
	case submission.StateSubmitting:
		return ErrSubmitting
	case submission.StateSucceeded:
		return ErrSubmitted
	}
	return nil
}

// BeginSubmit runs every step validator. If any step fails, its errors are
// stored, the first failing step becomes active and an *IncompleteError is
// returned. Otherwise the draft is locked against mutation until EndSubmit
// and a detached copy is returned together with the course id.
func (c *Controller) BeginSubmit() (*model.Draft, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, "", ErrClosed
	}

	failing := map[model.Step][]string{}
	for _, s := range model.Steps {
		if errs := c.validator.Validate(s, c.draft); len(errs) > 0 {
			failing[s] = errs
		}
	}
	if len(failing) > 0 {
		for _, s := range model.Steps {
			if errs, ok := failing[s]; ok {
				c.errs[s] = errs
				delete(c.completed, s)
			}
		}
		for _, s := range model.Steps {
			if _, ok := failing[s]; ok {
				if s != c.active {
					c.setActiveLocked(s)
				}
				break
			}
		}
		return nil, "", &IncompleteError{Failing: failing}
	}

	if err := c.attempt.Begin(); err != nil {
		if errors.Is(err, submission.ErrAlreadyStored) {
			return nil, "", ErrSubmitted
		}
		return nil, "", ErrSubmitting
	}
	return c.draft.Clone(), c.courseID, nil
}

// EndSubmit records the outcome of the submission started by BeginSubmit.
// A failure unlocks the draft unchanged.
func (c *Controller) EndSubmit(course *model.Course, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.attempt.Fail(err)
		return
	}
	c.attempt.Succeed()
	if course != nil && course.ID != "" {
		c.courseID = course.ID
	}
	for _, s := range model.Steps {
		c.completed[s] = true
	}
}

func (c *Controller) SubmissionState() submission.State {
	return c.attempt.State()
}

// Close cancels the step context and rejects further changes.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.rootCancel()
}
