package dto

import (
	"studio/internal/model"
	"studio/internal/service"
)

type CourseListDTO struct {
	Courses []model.Course `json:"courses"`
}

type ProgressUpdateDTO struct {
	PositionSeconds int  `json:"position_seconds" minimum:"0"`
	Completed       bool `json:"completed,omitempty"`
}

type CheckoutDTO = service.CheckoutResult

type ProgressSummaryDTO = service.ProgressSummary
