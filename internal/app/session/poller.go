package session

import (
	"context"
	"log/slog"
	"time"
)

// StatusSource reads the remote sync marker for a group.
type StatusSource interface {
	LastChange(ctx context.Context, groupID int64) (string, error)
}

// MarkerStore remembers the last marker a refresh was triggered for, shared
// across instances so each advance refreshes once.
type MarkerStore interface {
	Marker(ctx context.Context, groupID int64) (string, error)
	SetMarker(ctx context.Context, groupID int64, marker string) error
}

// SyncPoller polls the remote sync status on a fixed interval, independent
// of user interaction, and fires OnChange only when the last-change marker
// advances past the remembered one. The marker is advanced only after
// OnChange succeeds, so a failed refresh is retried on the next tick.
type SyncPoller struct {
	Source   StatusSource
	Markers  MarkerStore
	Interval time.Duration
	OnChange func(ctx context.Context, groupID int64) error
	Logger   *slog.Logger
}

func (p *SyncPoller) interval() time.Duration {
	if p.Interval <= 0 {
		return 30 * time.Second
	}
	return p.Interval
}

// Run blocks until the context ends. Poll errors are logged and the next
// tick tries again.
func (p *SyncPoller) Run(ctx context.Context, groupID int64) error {
	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.pollOnce(ctx, groupID); err != nil && p.Logger != nil {
				p.Logger.Warn("sync poll failed", "group_id", groupID, "error", err)
			}
		}
	}
}

// RunAll polls every group the callback returns on each tick. Used when
// one poller watches all open sessions.
func (p *SyncPoller) RunAll(ctx context.Context, groups func() []int64) error {
	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, groupID := range groups() {
				if err := p.pollOnce(ctx, groupID); err != nil && p.Logger != nil {
					p.Logger.Warn("sync poll failed", "group_id", groupID, "error", err)
				}
			}
		}
	}
}

func (p *SyncPoller) pollOnce(ctx context.Context, groupID int64) error {
	latest, err := p.Source.LastChange(ctx, groupID)
	if err != nil {
		return err
	}
	remembered, err := p.Markers.Marker(ctx, groupID)
	if err != nil {
		return err
	}
	if latest == remembered {
		return nil
	}
	// On the very first poll there is nothing to diff against; remember the
	// marker without forcing a refresh.
	if remembered == "" {
		return p.Markers.SetMarker(ctx, groupID, latest)
	}
	if p.OnChange != nil {
		if err := p.OnChange(ctx, groupID); err != nil {
			return err
		}
	}
	return p.Markers.SetMarker(ctx, groupID, latest)
}
