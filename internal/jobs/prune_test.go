package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	cutoff time.Time
	calls  int
	err    error
}

func (f *fakePruner) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	f.calls++
	f.cutoff = olderThan
	return 3, f.err
}

func TestPruneDraftsUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	p := &fakePruner{}

	PruneDrafts(p, 30*24*time.Hour, func() time.Time { return now }, zerolog.Nop())()

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), p.cutoff)
}

func TestPruneDraftsSwallowsErrors(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	assert.NotPanics(t, PruneDrafts(p, time.Hour, time.Now, zerolog.Nop()))
}

func TestSchedulePruneRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	assert.Error(t, s.SchedulePrune("not a schedule", &fakePruner{}, time.Hour))
	assert.NoError(t, s.SchedulePrune("@every 6h", &fakePruner{}, time.Hour))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
