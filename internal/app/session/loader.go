package session

import (
	"context"
	"log/slog"
	"sync"

	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"
)

// DataSource loads a group's grid snapshot from the inventory service.
type DataSource interface {
	LoadGrid(ctx context.Context, groupID int64, from, to day.Day) (*grid.Data, error)
}

// Loader fetches supplier data for a session's scope. A fresh load for the
// same group cancels the in-flight one; responses belonging to a superseded
// load are discarded instead of applied.
type Loader struct {
	Source DataSource
	Logger *slog.Logger

	mu       sync.Mutex
	inflight map[int64]*loadToken
}

type loadToken struct {
	cancel context.CancelFunc
}

func NewLoader(source DataSource, logger *slog.Logger) *Loader {
	return &Loader{Source: source, Logger: logger, inflight: map[int64]*loadToken{}}
}

// Load fetches [from, to] for the session's group and installs the result.
// Returns context.Canceled when a newer load superseded this one.
func (l *Loader) Load(ctx context.Context, s *Session, from, to day.Day) error {
	l.mu.Lock()
	if prev, ok := l.inflight[s.GroupID]; ok {
		prev.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	token := &loadToken{cancel: cancel}
	l.inflight[s.GroupID] = token
	l.mu.Unlock()
	defer cancel()

	data, err := l.Source.LoadGrid(loadCtx, s.GroupID, from, to)

	// Token identity decides ownership: only the load whose token is still
	// installed may apply its response or clear the slot. A superseded load
	// returning late must never evict its successor's token.
	l.mu.Lock()
	superseded := l.inflight[s.GroupID] != token
	if !superseded {
		delete(l.inflight, s.GroupID)
	}
	l.mu.Unlock()

	if superseded {
		// A newer load owns the scope; this response is stale either way.
		return context.Canceled
	}
	if err != nil {
		return err
	}
	s.ReplaceData(data)
	if l.Logger != nil {
		l.Logger.Info("grid loaded", "group_id", s.GroupID, "from", from, "to", to, "units", len(data.Units))
	}
	return nil
}
