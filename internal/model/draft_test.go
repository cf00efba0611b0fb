package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsDetached(t *testing.T) {
	d := NewDraft()
	d.Tags = []string{"go"}
	d.Lectures = []Lecture{{ID: "l1", Resources: []Resource{{ID: "r1"}}}}

	c := d.Clone()
	c.Tags[0] = "rust"
	c.Lectures[0].Resources[0].ID = "changed"
	c.Lectures[0].Title = "changed"

	assert.Equal(t, "go", d.Tags[0])
	assert.Equal(t, "r1", d.Lectures[0].Resources[0].ID)
	assert.Empty(t, d.Lectures[0].Title)
}

func TestPatchApplyIsShallow(t *testing.T) {
	d := NewDraft()
	d.Title = "Old"
	d.Category = "Design"

	title := "New"
	tags := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	DraftPatch{Title: &title, Tags: &tags}.Apply(d)

	assert.Equal(t, "New", d.Title)
	assert.Equal(t, "Design", d.Category)
	assert.Len(t, d.Tags, MaxTags)
	assert.Len(t, tags, 12, "patch input must not be modified")
}

func TestPatchRenumbersLectures(t *testing.T) {
	d := NewDraft()
	lectures := []Lecture{{ID: "a", OrderNumber: 7}, {ID: "b", OrderNumber: 3}}
	DraftPatch{Lectures: &lectures}.Apply(d)

	assert.Equal(t, 1, d.Lectures[0].OrderNumber)
	assert.Equal(t, 2, d.Lectures[1].OrderNumber)
	assert.Equal(t, 7, lectures[0].OrderNumber)
}

func TestCourseToDraftRenamesLevel(t *testing.T) {
	c := &Course{Title: "Go", Level: "advanced", Currency: "EUR", Lectures: []Lecture{{ID: "x"}}}
	d := c.ToDraft()

	assert.Equal(t, "advanced", d.DifficultyLevel)
	assert.Equal(t, "EUR", d.Currency)
	assert.Equal(t, "English", d.Language)
	assert.Equal(t, 1, d.Lectures[0].OrderNumber)
}
