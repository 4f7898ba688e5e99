package scheduler_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
	"github.com/openplaylab/courtflow/internal/scheduler"
)

// MockClock helps control time in tests
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
}

func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{currentTime: startTime}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

func sequentialIDs(prefix string) func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

func newSession(state domain.SessionState, clock *MockClock) *scheduler.Session {
	return scheduler.New(state, clock.Now, sequentialIDs("id"))
}

func ptr[T any](v T) *T {
	return &v
}
