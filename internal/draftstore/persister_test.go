package draftstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	saves int
	err   error
}

func (s *countingStore) Save(ctx context.Context, key string, d *model.Draft) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	return s.MemoryStore.Save(ctx, key, d)
}

func newTestPersister(store Store) (*Persister, *ManualClock) {
	clock := NewManualClock()
	return NewPersister(store, zerolog.Nop(), WithClock(clock)), clock
}

func TestScheduleIsTrailingEdge(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	p, clock := newTestPersister(store)

	d := model.NewDraft()
	d.Title = "first"
	p.Schedule("u1", d)
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 0, store.saves)

	d.Title = "second"
	p.Schedule("u1", d)
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 0, store.saves, "timer must restart on every schedule")

	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 1, store.saves)
	assert.False(t, p.Pending("u1"))

	saved, err := store.Load(context.Background(), Key("u1"))
	require.NoError(t, err)
	assert.Equal(t, "second", saved.Title)
}

func TestScheduleStoresDetachedSnapshot(t *testing.T) {
	store := NewMemoryStore()
	p, clock := newTestPersister(store)

	d := model.NewDraft()
	d.Title = "scheduled"
	p.Schedule("u1", d)
	d.Title = "mutated after schedule"
	clock.Advance(DefaultQuietPeriod)

	restored, ok := p.Restore(context.Background(), "u1")
	require.True(t, ok)
	assert.Equal(t, "scheduled", restored.Title)
}

func TestDiscardCancelsPendingWrite(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	p, clock := newTestPersister(store)
	ctx := context.Background()

	require.NoError(t, store.MemoryStore.Save(ctx, Key("u1"), model.NewDraft()))
	p.Schedule("u1", model.NewDraft())
	p.Discard(ctx, "u1")
	clock.Advance(time.Minute)

	assert.Equal(t, 0, store.saves)
	_, ok := p.Restore(ctx, "u1")
	assert.False(t, ok)
}

func TestStoreErrorsAreSwallowed(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore(), err: errors.New("quota exceeded")}
	p, clock := newTestPersister(store)

	p.Schedule("u1", model.NewDraft())
	assert.NotPanics(t, func() { clock.Advance(DefaultQuietPeriod) })
	assert.Equal(t, 1, store.saves)
}

func TestFlushWritesPending(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	p, clock := newTestPersister(store)

	p.Schedule("u1", model.NewDraft())
	p.Schedule("u2", model.NewDraft())
	p.Flush(context.Background())
	assert.Equal(t, 2, store.saves)

	clock.Advance(time.Minute)
	assert.Equal(t, 2, store.saves, "flushed timers must not fire again")
}

func TestKeyIsNamespacedByUser(t *testing.T) {
	assert.Equal(t, "course-draft-42", Key("42"))
}
