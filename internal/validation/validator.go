package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"studio/internal/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Limits enforced by the step validators.
const (
	MaxPrice         = 10_000_000
	MaxDurationHours = 1000
)

type basicsView struct {
	Title           string `label:"Title" validate:"required,min=5,max=100"`
	Description     string `label:"Description" validate:"required,min=20,max=5000"`
	Category        string `label:"Category" validate:"required"`
	DifficultyLevel string `label:"Difficulty level" validate:"required,oneof=beginner intermediate advanced all_levels"`
	Language        string `label:"Language" validate:"required"`
}

type detailsView struct {
	EstimatedDuration float64  `label:"Estimated duration" validate:"gte=0,lte=1000"`
	LearningOutcomes  []string `label:"Learning outcome" validate:"dive,max=200"`
	Requirements      []string `label:"Requirement" validate:"dive,max=200"`
	Tags              []string `label:"Tags" validate:"max=10"`
}

type pricingView struct {
	Price          float64 `label:"Price" validate:"gte=0,lte=10000000"`
	Currency       string  `label:"Currency" validate:"required,iso4217"`
	MaxEnrollments int     `label:"Maximum enrollments" validate:"gte=0"`
}

type reviewView struct {
	Status          string     `label:"Status" validate:"oneof=draft published"`
	EnrollmentStart *time.Time `label:"Enrollment start"`
	EnrollmentEnd   *time.Time `label:"Enrollment end"`
}

// Validator runs the per-step checks over a draft and renders human-readable
// messages. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with English translations.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	v.RegisterStructValidation(validateEnrollmentWindow, reviewView{})

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	return &Validator{validate: v, trans: trans}
}

// Validate returns the error list for one step. An empty list means the step
// may be left. The curriculum and resources steps never block.
func (v *Validator) Validate(step model.Step, d *model.Draft) []string {
	switch step {
	case model.StepBasics:
		return v.run(basicsView{
			Title:           strings.TrimSpace(d.Title),
			Description:     strings.TrimSpace(d.Description),
			Category:        d.Category,
			DifficultyLevel: d.DifficultyLevel,
			Language:        d.Language,
		})
	case model.StepDetails:
		return v.run(detailsView{
			EstimatedDuration: d.EstimatedDuration,
			LearningOutcomes:  d.LearningOutcomes,
			Requirements:      d.Requirements,
			Tags:              d.Tags,
		})
	case model.StepPricing:
		return v.run(pricingView{
			Price:          d.Price,
			Currency:       strings.ToUpper(d.Currency),
			MaxEnrollments: d.MaxEnrollments,
		})
	case model.StepReview:
		return v.run(reviewView{
			Status:          string(d.Status),
			EnrollmentStart: d.EnrollmentStart,
			EnrollmentEnd:   d.EnrollmentEnd,
		})
	default:
		return nil
	}
}

// ValidateAll validates every step and returns only the failing ones.
func (v *Validator) ValidateAll(d *model.Draft) map[model.Step][]string {
	out := map[model.Step][]string{}
	for _, step := range model.Steps {
		if errs := v.Validate(step, d); len(errs) > 0 {
			out[step] = errs
		}
	}
	return out
}

func (v *Validator) run(view any) []string {
	err := v.validate.Struct(view)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := Message(fe.StructField(), fe.Tag()); ok {
			msgs = append(msgs, msg)
			continue
		}
		msgs = append(msgs, fe.Translate(v.trans))
	}
	return msgs
}

func validateEnrollmentWindow(sl validator.StructLevel) {
	view := sl.Current().Interface().(reviewView)
	if view.EnrollmentStart == nil || view.EnrollmentEnd == nil {
		return
	}
	if !view.EnrollmentEnd.After(*view.EnrollmentStart) {
		sl.ReportError(view.EnrollmentEnd, "EnrollmentEnd", "EnrollmentEnd", "enrollment_window", "")
	}
}
