package service

import (
	"context"
	"sync"

	"studio/internal/gateway"
	"studio/internal/model"
)

type fakeGateway struct {
	mu          sync.Mutex
	courses     map[string]*model.Course
	access      model.AccessLevel
	listCalls   int
	enrollCalls []gateway.EnrollRequest
	enrollErr   error
	getErr      error
	// beforeEnroll runs outside the lock so a test can hold a call open.
	beforeEnroll func(courseID string)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{courses: map[string]*model.Course{}, access: model.AccessFull}
}

func (f *fakeGateway) GetCourse(ctx context.Context, token, courseID string) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.courses[courseID]
	if !ok {
		return nil, &gateway.APIError{Status: 404, Message: "Course not found"}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeGateway) ListCourses(ctx context.Context, token string, q gateway.ListQuery) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []model.Course{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeGateway) GetCourseAccess(ctx context.Context, token, courseID string) (model.AccessLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access, nil
}

func (f *fakeGateway) Enroll(ctx context.Context, token, courseID string, body gateway.EnrollRequest) (*model.Enrollment, error) {
	if f.beforeEnroll != nil {
		f.beforeEnroll(courseID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollCalls = append(f.enrollCalls, body)
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	return &model.Enrollment{ID: "enr-1", CourseID: courseID, UserID: body.UserID, AccessLevel: model.AccessFull}, nil
}
