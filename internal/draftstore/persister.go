package draftstore

import (
	"context"
	"sync"
	"time"

	"studio/internal/model"

	"github.com/rs/zerolog"
)

// DefaultQuietPeriod is how long a draft must stay unchanged before it is written.
const DefaultQuietPeriod = 2 * time.Second

const saveTimeout = 5 * time.Second

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred work. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type pendingSave struct {
	timer Timer
	draft *model.Draft
	gen   uint64
}

// Persister writes draft snapshots on the trailing edge of a quiet period.
// Persistence is best effort: failures are logged and never returned.
type Persister struct {
	store  Store
	quiet  time.Duration
	clock  Clock
	logger zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	pending map[string]*pendingSave
}

type Option func(*Persister)

// WithQuietPeriod overrides DefaultQuietPeriod.
func WithQuietPeriod(d time.Duration) Option {
	return func(p *Persister) { p.quiet = d }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(p *Persister) { p.clock = c }
}

func NewPersister(store Store, logger zerolog.Logger, opts ...Option) *Persister {
	p := &Persister{
		store:   store,
		quiet:   DefaultQuietPeriod,
		clock:   realClock{},
		logger:  logger.With().Str("service", "DraftPersister").Logger(),
		pending: map[string]*pendingSave{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schedule (re)arms the user's timer with a detached copy of d. Only the most
// recently scheduled snapshot is written when the timer fires.
func (p *Persister) Schedule(userID string, d *model.Draft) {
	key := Key(userID)
	snapshot := d.Clone()

	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.pending[key]; ok {
		prev.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.pending[key] = &pendingSave{
		draft: snapshot,
		gen:   gen,
		timer: p.clock.AfterFunc(p.quiet, func() { p.fire(key, gen) }),
	}
}

func (p *Persister) fire(key string, gen uint64) {
	p.mu.Lock()
	ps, ok := p.pending[key]
	if !ok || ps.gen != gen {
		p.mu.Unlock()
		return
	}
	delete(p.pending, key)
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	p.save(ctx, key, ps.draft)
}

func (p *Persister) save(ctx context.Context, key string, d *model.Draft) {
	if err := p.store.Save(ctx, key, d); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("Failed to persist draft snapshot")
		return
	}
	p.logger.Debug().Str("key", key).Msg("Draft snapshot persisted")
}

// Restore returns the user's stored snapshot, if any.
func (p *Persister) Restore(ctx context.Context, userID string) (*model.Draft, bool) {
	key := Key(userID)
	d, err := p.store.Load(ctx, key)
	if err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("Failed to restore draft snapshot")
		return nil, false
	}
	return d, d != nil
}

// Discard cancels any pending write for the user and deletes the stored snapshot.
func (p *Persister) Discard(ctx context.Context, userID string) {
	key := Key(userID)
	p.mu.Lock()
	if ps, ok := p.pending[key]; ok {
		ps.timer.Stop()
		delete(p.pending, key)
	}
	p.mu.Unlock()

	if err := p.store.Delete(ctx, key); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("Failed to discard draft snapshot")
	}
}

// Pending reports whether a write is scheduled for the user.
func (p *Persister) Pending(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[Key(userID)]
	return ok
}

// Flush writes every pending snapshot immediately. Used on shutdown.
func (p *Persister) Flush(ctx context.Context) {
	p.mu.Lock()
	batch := p.pending
	p.pending = map[string]*pendingSave{}
	p.mu.Unlock()

	for key, ps := range batch {
		ps.timer.Stop()
		p.save(ctx, key, ps.draft)
	}
}
