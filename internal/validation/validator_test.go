package validation

import (
	"strings"
	"testing"
	"time"

	"studio/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *model.Draft {
	d := model.NewDraft()
	d.Title = "Practical Go Services"
	d.Description = "Build production HTTP services in Go from scratch."
	d.Category = "Programming"
	d.EstimatedDuration = 12
	d.Price = 49.99
	return d
}

func containsMessage(msgs []string, fragment string) bool {
	for _, m := range msgs {
		if strings.Contains(m, fragment) {
			return true
		}
	}
	return false
}

func TestPriceBounds(t *testing.T) {
	v := New()
	d := validDraft()

	d.Price = -5
	errs := v.Validate(model.StepPricing, d)
	require.NotEmpty(t, errs)
	assert.True(t, containsMessage(errs, "cannot be negative"), errs)

	d.Price = 10_000_001
	errs = v.Validate(model.StepPricing, d)
	require.NotEmpty(t, errs)
	assert.True(t, containsMessage(errs, "too high"), errs)

	d.Price = 0
	assert.Empty(t, v.Validate(model.StepPricing, d))

	d.Price = MaxPrice
	assert.Empty(t, v.Validate(model.StepPricing, d))
}

func TestCurrencyMustBeISO(t *testing.T) {
	v := New()
	d := validDraft()
	d.Currency = "dollars"

	errs := v.Validate(model.StepPricing, d)
	assert.Equal(t, []string{"Currency must be a valid ISO 4217 code"}, errs)

	d.Currency = "eur"
	assert.Empty(t, v.Validate(model.StepPricing, d))
}

func TestDurationBounds(t *testing.T) {
	v := New()
	d := validDraft()

	d.EstimatedDuration = -1
	assert.True(t, containsMessage(v.Validate(model.StepDetails, d), "cannot be negative"))

	d.EstimatedDuration = MaxDurationHours + 1
	assert.True(t, containsMessage(v.Validate(model.StepDetails, d), "too long"))

	d.EstimatedDuration = MaxDurationHours
	assert.Empty(t, v.Validate(model.StepDetails, d))
}

func TestBasicsLengths(t *testing.T) {
	v := New()
	d := validDraft()

	d.Title = ""
	assert.Equal(t, []string{"Please give your course a title"}, v.Validate(model.StepBasics, d))

	d.Title = "Go"
	errs := v.Validate(model.StepBasics, d)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Title")

	d.Title = strings.Repeat("x", 101)
	assert.Len(t, v.Validate(model.StepBasics, d), 1)

	d.Title = "Valid title"
	d.DifficultyLevel = "expert"
	assert.True(t, containsMessage(v.Validate(model.StepBasics, d), "Difficulty level"))
}

func TestCurriculumAndResourcesNeverBlock(t *testing.T) {
	v := New()
	d := model.NewDraft()

	assert.Empty(t, v.Validate(model.StepCurriculum, d))
	assert.Empty(t, v.Validate(model.StepResources, d))
}

func TestEnrollmentWindow(t *testing.T) {
	v := New()
	d := validDraft()
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	d.EnrollmentStart = &start
	d.EnrollmentEnd = &end

	assert.Equal(t, []string{"Enrollment must close after it opens"}, v.Validate(model.StepReview, d))

	end = start.Add(24 * time.Hour)
	assert.Empty(t, v.Validate(model.StepReview, d))
}

func TestValidateAll(t *testing.T) {
	v := New()
	assert.Empty(t, v.ValidateAll(validDraft()))

	d := validDraft()
	d.Title = ""
	d.Price = -1
	failing := v.ValidateAll(d)
	assert.Len(t, failing, 2)
	assert.Contains(t, failing, model.StepBasics)
	assert.Contains(t, failing, model.StepPricing)
}
