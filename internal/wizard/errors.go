package wizard

import (
	"errors"
	"fmt"
	"strings"

	"studio/internal/model"
)

var (
	ErrSubmitting         = errors.New("a submission is in progress")
	ErrSubmitted          = errors.New("course has already been submitted")
	ErrClosed             = errors.New("wizard session is closed")
	ErrInvalidStep        = errors.New("invalid wizard step")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrInvalidLectureType = errors.New("invalid lecture type")
	ErrNotVideoLecture    = errors.New("videos can only be attached to video lectures")
	ErrPositionOutOfRange = errors.New("lecture position out of range")
	ErrDuplicateLecture   = errors.New("duplicate lecture id")
	ErrVideoInUse         = errors.New("video is attached to more than one lecture")
)

// IncompleteError lists the steps that block a submission.
type IncompleteError struct {
	Failing map[model.Step][]string
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Failing))
	for _, s := range model.Steps {
		if _, ok := e.Failing[s]; ok {
			names = append(names, s.String())
		}
	}
	return fmt.Sprintf("course is incomplete: fix the %s step(s)", strings.Join(names, ", "))
}
