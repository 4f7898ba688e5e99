package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/openplaylab/courtflow/internal/domain"
)

// Session is the authoritative in-memory state of one running session. Every
// command locks the session, reads the wall clock once, applies its mutation
// atomically and appends exactly one audit entry. A command that fails its
// preconditions mutates nothing and is not audited.
type Session struct {
	mu sync.Mutex

	state domain.SessionState
	audit []domain.AuditEntry

	nowFunc func() time.Time
	newID   func() string
}

// Outcome carries the side effects of one successful command: the changed
// rows to persist and the audit entry that was appended. All rows are copies
// and stay valid after the session lock is released.
type Outcome struct {
	Delta domain.Delta
	Audit domain.AuditEntry
}

// Placement is a team bound to a court.
type Placement struct {
	Team  domain.Team
	Court domain.Court
}

// New wraps an existing session state, typically one loaded from storage.
// Courts are kept in position order.
func New(state domain.SessionState, nowFunc func() time.Time, newID func() string) *Session {
	slices.SortStableFunc(state.Courts, func(a, b domain.Court) int {
		return a.Position - b.Position
	})
	return &Session{
		state:   state,
		nowFunc: nowFunc,
		newID:   newID,
	}
}

// Create builds a fresh session with one available court per name and records
// the session_created audit entry. Blank court names fall back to "Court N".
func Create(name string, settings domain.Settings, courtNames []string, nowFunc func() time.Time, newID func() string) (*Session, Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Outcome{}, domain.ErrEmptySessionName
	}
	if settings.TeamSize < 1 || settings.GameDuration < 0 || len(courtNames) == 0 {
		return nil, Outcome{}, domain.ErrInvalidSettings
	}

	now := nowFunc()
	state := domain.SessionState{
		ID:        newID(),
		Name:      name,
		CreatedAt: now,
		Settings:  settings,
	}
	for i, courtName := range courtNames {
		courtName = strings.TrimSpace(courtName)
		if courtName == "" {
			courtName = fmt.Sprintf("Court %d", i+1)
		}
		state.Courts = append(state.Courts, domain.Court{
			ID:       newID(),
			Name:     courtName,
			Position: i,
			Status:   domain.CourtAvailable,
		})
	}

	s := New(state, nowFunc, newID)
	entry := s.record(domain.AuditSessionCreated, domain.SessionCreatedPayload{
		SessionName: name,
		TeamSize:    settings.TeamSize,
		CourtCount:  len(courtNames),
	}, now)
	return s, Outcome{Audit: entry}, nil
}

// ID returns the session id. It never changes after creation.
func (s *Session) ID() string {
	return s.state.ID
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Info returns the listing projection of the session.
func (s *Session) Info() domain.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionInfo{
		ID:          s.state.ID,
		Name:        s.state.Name,
		CreatedAt:   s.state.CreatedAt,
		Settings:    s.state.Settings,
		PlayerCount: len(s.state.Players),
		CourtCount:  len(s.state.Courts),
	}
}

// AuditLog returns the entries this process has recorded for the session, in
// append order.
func (s *Session) AuditLog() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.audit)
}

func (s *Session) record(auditType domain.AuditType, payload domain.AuditPayload, now time.Time) domain.AuditEntry {
	entry := domain.AuditEntry{
		ID:        s.newID(),
		Type:      auditType,
		Payload:   payload,
		Timestamp: now,
	}
	s.audit = append(s.audit, entry)
	return entry
}

func (s *Session) playerByID(id string) *domain.Player {
	for i := range s.state.Players {
		if s.state.Players[i].ID == id {
			return &s.state.Players[i]
		}
	}
	return nil
}

func (s *Session) teamByID(id string) *domain.Team {
	for i := range s.state.Teams {
		if s.state.Teams[i].ID == id {
			return &s.state.Teams[i]
		}
	}
	return nil
}

func (s *Session) courtByID(id string) *domain.Court {
	for i := range s.state.Courts {
		if s.state.Courts[i].ID == id {
			return &s.state.Courts[i]
		}
	}
	return nil
}
