package service

import (
	"context"
	"testing"

	"studio/internal/model"
	"studio/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressFixture(access model.AccessLevel) (*fakeGateway, *repository.MemoryProgressRepo, ProgressService) {
	gw := newFakeGateway()
	gw.access = access
	gw.courses["c1"] = &model.Course{ID: "c1", Lectures: []model.Lecture{
		{ID: "l1", Title: "Welcome", IsFreePreview: true, OrderNumber: 1},
		{ID: "l2", Title: "Deep dive", OrderNumber: 2},
	}}
	repo := repository.NewMemoryProgressRepo()
	return gw, repo, NewProgressService(repo, gw, zerolog.Nop())
}

func TestRecordProgressGatedByAccess(t *testing.T) {
	ctx := context.Background()

	_, _, full := progressFixture(model.AccessFull)
	_, err := full.RecordProgress(ctx, "u1", "tok", model.Progress{CourseID: "c1", LectureID: "l2", PositionSeconds: 30})
	assert.NoError(t, err)

	_, _, preview := progressFixture(model.AccessPreview)
	_, err = preview.RecordProgress(ctx, "u1", "tok", model.Progress{CourseID: "c1", LectureID: "l1"})
	assert.NoError(t, err)
	_, err = preview.RecordProgress(ctx, "u1", "tok", model.Progress{CourseID: "c1", LectureID: "l2"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, _, none := progressFixture(model.AccessNone)
	_, err = none.RecordProgress(ctx, "u1", "tok", model.Progress{CourseID: "c1", LectureID: "l1"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = full.RecordProgress(ctx, "u1", "tok", model.Progress{CourseID: "c1", LectureID: "nope"})
	assert.ErrorIs(t, err, ErrUnknownLecture)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	_, _, svc := progressFixture(model.AccessPreview)

	p, err := svc.RecordProgress(ctx, "u1", "tok", model.Progress{CourseID: "c1", LectureID: "l1", PositionSeconds: -3, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, 0, p.PositionSeconds)

	s, err := svc.Summary(ctx, "u1", "tok", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalLectures)
	assert.Equal(t, 1, s.CompletedLectures)
	assert.Equal(t, 50, s.Percent)
	assert.False(t, s.Lectures[0].Locked)
	assert.True(t, s.Lectures[1].Locked)

	_, _, none := progressFixture(model.AccessNone)
	_, err = none.Summary(ctx, "u1", "tok", "c1")
	assert.ErrorIs(t, err, ErrAccessDenied)
}
