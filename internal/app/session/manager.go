package session

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("session: not found")

// Manager hands out one editing session per unit group. Sessions live in
// memory only; their state never outlives the process except through the
// bulk-update request.
type Manager struct {
	mu       sync.Mutex
	clock    func() time.Time
	byID     map[string]*Session
	byGroup  map[int64]*Session
}

func NewManager(clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		clock:   clock,
		byID:    map[string]*Session{},
		byGroup: map[int64]*Session{},
	}
}

// Open returns the group's existing session or creates a fresh empty one.
func (m *Manager) Open(groupID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byGroup[groupID]; ok {
		return s
	}
	s := New(groupID, m.clock)
	m.byID[s.ID] = s
	m.byGroup[groupID] = s
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// ByGroup returns the group's session if one is open.
func (m *Manager) ByGroup(groupID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byGroup[groupID]
	return s, ok
}

// Groups lists the groups with an open session.
func (m *Manager) Groups() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, 0, len(m.byGroup))
	for id := range m.byGroup {
		out = append(out, id)
	}
	return out
}

// Close discards a session entirely (explicit clear).
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byID, id)
	delete(m.byGroup, s.GroupID)
}
