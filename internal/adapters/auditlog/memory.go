package auditlog

import (
	"context"
	"slices"
	"sync"

	"github.com/openplaylab/courtflow/internal/domain"
)

// Memory keeps audit entries per session in a mutex-guarded map. It backs
// local development without a database and the command flow tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]domain.AuditEntry
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]domain.AuditEntry),
	}
}

func (m *Memory) Record(ctx context.Context, sessionID string, entry domain.AuditEntry) error {
	// The pairing check runs here too, so tests against Memory catch the same
	// mismatches the postgres store would reject.
	_, err := encodePayload(entry)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[sessionID] = append(m.entries[sessionID], entry)
	return nil
}

func (m *Memory) Log(ctx context.Context, sessionID string, limit int) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.entries[sessionID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return slices.Clone(entries), nil
}
