package handler

import (
	"context"

	"studio/internal/api/v1/dto"
	"studio/internal/api/v1/operation"
	"studio/internal/gateway"
	"studio/internal/middleware"
	"studio/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler serves course listings
type CourseHandler struct {
	courseService service.CourseService
	logger        zerolog.Logger
}

func NewCourseHandler(courseService service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger,
	}
}

func (h *CourseHandler) ListCourses(ctx context.Context, input *operation.ListCoursesInput) (*operation.ListCoursesOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := h.courseService.ListCourses(ctx, userID, middleware.Token(ctx), gateway.ListQuery{
		InstructorID: input.InstructorID,
		Category:     input.Category,
		Page:         input.Page,
		Limit:        input.Limit,
	})
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.ListCoursesOutput{Body: dto.CourseListDTO{Courses: courses}}, nil
}

func (h *CourseHandler) GetCourse(ctx context.Context, input *operation.GetCourseInput) (*operation.GetCourseOutput, error) {
	if _, err := getUserIDFromContext(ctx); err != nil {
		return nil, err
	}
	course, err := h.courseService.GetCourse(ctx, middleware.Token(ctx), input.CourseID)
	if err != nil {
		return nil, toHTTPError(err, h.logger)
	}
	return &operation.GetCourseOutput{Body: *course}, nil
}
