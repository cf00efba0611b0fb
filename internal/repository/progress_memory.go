package repository

import (
	"context"
	"sync"
	"time"

	"studio/internal/model"
)

type progressKey struct {
	userID, courseID, lectureID string
}

// MemoryProgressRepo keeps progress in process memory. It is used when no
// database is configured and in tests.
type MemoryProgressRepo struct {
	mu   sync.Mutex
	now  func() time.Time
	rows map[progressKey]model.Progress
}

func NewMemoryProgressRepo() *MemoryProgressRepo {
	return &MemoryProgressRepo{now: time.Now, rows: map[progressKey]model.Progress{}}
}

func (m *MemoryProgressRepo) UpsertProgress(ctx context.Context, p *model.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{p.UserID, p.CourseID, p.LectureID}
	if prev, ok := m.rows[key]; ok && prev.Completed {
		p.Completed = true
	}
	p.UpdatedAt = m.now()
	m.rows[key] = *p
	return nil
}

func (m *MemoryProgressRepo) ListProgress(ctx context.Context, userID, courseID string) ([]model.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Progress{}
	for k, p := range m.rows {
		if k.userID == userID && k.courseID == courseID {
			out = append(out, p)
		}
	}
	return out, nil
}
