package wizard

import "studio/internal/model"

type event int

const (
	eventNext event = iota
	eventBack
)

// transitions is the step graph. A missing entry leaves the step unchanged.
var transitions = map[model.Step]map[event]model.Step{
	model.StepBasics:     {eventNext: model.StepDetails},
	model.StepDetails:    {eventNext: model.StepPricing, eventBack: model.StepBasics},
	model.StepPricing:    {eventNext: model.StepCurriculum, eventBack: model.StepDetails},
	model.StepCurriculum: {eventNext: model.StepResources, eventBack: model.StepPricing},
	model.StepResources:  {eventNext: model.StepReview, eventBack: model.StepCurriculum},
	model.StepReview:     {eventBack: model.StepResources},
}

func follow(from model.Step, ev event) (model.Step, bool) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, false
	}
	return to, true
}
