package model

import "fmt"

// Step is one named stage of the course-creation wizard.
type Step int

const (
	StepBasics Step = iota
	StepDetails
	StepPricing
	StepCurriculum
	StepResources
	StepReview
)

// Steps lists every wizard step in order.
var Steps = []Step{StepBasics, StepDetails, StepPricing, StepCurriculum, StepResources, StepReview}

var stepNames = map[Step]string{
	StepBasics:     "basics",
	StepDetails:    "details",
	StepPricing:    "pricing",
	StepCurriculum: "curriculum",
	StepResources:  "resources",
	StepReview:     "review",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s names a wizard step.
func (s Step) Valid() bool {
	_, ok := stepNames[s]
	return ok
}

// ParseStep resolves a step by name.
func ParseStep(name string) (Step, error) {
	for s, n := range stepNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown wizard step %q", name)
}

// StepState is the externally visible state of one step.
type StepState struct {
	Step      string   `json:"step"`
	Index     int      `json:"index"`
	Completed bool     `json:"completed"`
	Active    bool     `json:"active"`
	Errors    []string `json:"errors,omitempty"`
}
