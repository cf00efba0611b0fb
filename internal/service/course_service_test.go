package service

import (
	"context"
	"testing"
	"time"

	"studio/internal/cache"
	"studio/internal/gateway"
	"studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCoursesReadsThroughCache(t *testing.T) {
	gw := newFakeGateway()
	gw.courses["c1"] = &model.Course{ID: "c1", Title: "Go"}
	listCache := cache.NewMemoryCache(time.Minute)
	svc := NewCourseService(gw, listCache, zerolog.Nop())
	ctx := context.Background()
	q := gateway.ListQuery{InstructorID: "u1"}

	first, err := svc.ListCourses(ctx, "u1", "tok", q)
	require.NoError(t, err)
	second, err := svc.ListCourses(ctx, "u1", "tok", q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.listCalls)

	require.NoError(t, listCache.Invalidate(ctx, "u1"))
	_, err = svc.ListCourses(ctx, "u1", "tok", q)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.listCalls)
}

func TestGetCourseWrapsGatewayError(t *testing.T) {
	svc := NewCourseService(newFakeGateway(), cache.NewMemoryCache(time.Minute), zerolog.Nop())
	_, err := svc.GetCourse(context.Background(), "tok", "missing")
	assert.True(t, gateway.IsNotFound(err))
}
