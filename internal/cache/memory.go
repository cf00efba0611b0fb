package cache

import (
	"context"
	"sync"
	"time"

	"studio/internal/model"
)

type memoryEntry struct {
	courses []model.Course
	expires time.Time
}

// MemoryCache is a process-local CourseListCache.
type MemoryCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[string]map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, m: map[string]map[string]memoryEntry{}}
}

func (c *MemoryCache) Get(ctx context.Context, userID, query string) ([]model.Course, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.m[userID][query]
	if !ok || c.now().After(entry.expires) {
		return nil, false, nil
	}
	out := make([]model.Course, len(entry.courses))
	copy(out, entry.courses)
	return out, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, userID, query string, courses []model.Course) error {
	stored := make([]model.Course, len(courses))
	copy(stored, courses)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m[userID] == nil {
		c.m[userID] = map[string]memoryEntry{}
	}
	c.m[userID][query] = memoryEntry{courses: stored, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	delete(c.m, userID)
	c.mu.Unlock()
	return nil
}
