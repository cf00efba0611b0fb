package submission

import (
	"errors"
	"sync"
)

// State is the lifecycle of one submit attempt.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

var (
	ErrInFlight      = errors.New("a submission is already in progress")
	ErrAlreadyStored = errors.New("course has already been submitted")
)

// Attempt tracks idle -> submitting -> succeeded. A failure returns the
// attempt to idle and keeps the error until the next success. Succeeded is
// terminal.
type Attempt struct {
	mu      sync.Mutex
	state   State
	lastErr error
}

func NewAttempt() *Attempt {
	return &Attempt{state: StateIdle}
}

// Begin moves the attempt into submitting.
func (a *Attempt) Begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case StateSubmitting:
		return ErrInFlight
	case StateSucceeded:
		return ErrAlreadyStored
	}
	a.state = StateSubmitting
	return nil
}

func (a *Attempt) Succeed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateSubmitting {
		return
	}
	a.state = StateSucceeded
	a.lastErr = nil
}

// Fail records err and returns the attempt to idle.
func (a *Attempt) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateSubmitting {
		return
	}
	a.state = StateIdle
	a.lastErr = err
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == "" {
		return StateIdle
	}
	return a.state
}

// LastError is the error of the most recent failed attempt, cleared on success.
func (a *Attempt) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
