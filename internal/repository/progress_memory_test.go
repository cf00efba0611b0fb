package repository

import (
	"context"
	"testing"

	"studio/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProgressCompletionIsSticky(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProgressRepo()

	done := &model.Progress{UserID: "u1", CourseID: "c1", LectureID: "l1", PositionSeconds: 300, Completed: true}
	require.NoError(t, repo.UpsertProgress(ctx, done))

	rewind := &model.Progress{UserID: "u1", CourseID: "c1", LectureID: "l1", PositionSeconds: 10}
	require.NoError(t, repo.UpsertProgress(ctx, rewind))
	assert.True(t, rewind.Completed)
	assert.False(t, rewind.UpdatedAt.IsZero())

	require.NoError(t, repo.UpsertProgress(ctx, &model.Progress{UserID: "u2", CourseID: "c1", LectureID: "l1"}))

	rows, err := repo.ListProgress(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].PositionSeconds)
	assert.True(t, rows[0].Completed)
}
