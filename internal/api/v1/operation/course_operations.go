package operation

import (
	"studio/internal/api/v1/dto"
	"studio/internal/model"
)

// Course Operations

type ListCoursesInput struct {
	InstructorID string `query:"instructor_id" doc:"Filter by instructor"`
	Category     string `query:"category" doc:"Filter by category"`
	Page         int    `query:"page" default:"1" minimum:"1" doc:"Page number"`
	Limit        int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Page size"`
}

type ListCoursesOutput struct {
	Body dto.CourseListDTO `json:"body"`
}

type GetCourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type GetCourseOutput struct {
	Body model.Course `json:"body"`
}

// Checkout Operations

type CreateCheckoutInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type FinalizeCheckoutInput struct {
	PaymentIntentID string `path:"paymentIntentId" doc:"Stripe payment intent ID"`
}

type CheckoutOutput struct {
	Body dto.CheckoutDTO `json:"body"`
}

// Progress Operations

type RecordProgressInput struct {
	CourseID  string                `path:"courseId" doc:"Course ID"`
	LectureID string                `path:"lectureId" doc:"Lecture ID"`
	Body      dto.ProgressUpdateDTO `json:"body"`
}

type RecordProgressOutput struct {
	Body model.Progress `json:"body"`
}

type ProgressSummaryInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}

type ProgressSummaryOutput struct {
	Body dto.ProgressSummaryDTO `json:"body"`
}
