package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ratedesk/internal/domain/grid"
)

// Submitter pushes one unit's staged changes to the inventory service.
type Submitter interface {
	SubmitBulk(ctx context.Context, groupID int64, diff grid.BulkUpdate) error
}

// AuditRecorder persists a record of a save attempt. Failures to record are
// logged, never fatal.
type AuditRecorder interface {
	RecordSubmission(ctx context.Context, entry SubmissionRecord) error
}

// EventPublisher announces an applied bulk update to downstream consumers.
type EventPublisher interface {
	BulkUpdateApplied(ctx context.Context, groupID int64, units []grid.UnitID, cells int) error
}

// SubmissionRecord is one audit-trail entry.
type SubmissionRecord struct {
	SessionID   string    `json:"sessionId"`
	GroupID     int64     `json:"groupId"`
	Units       []int64   `json:"units"`
	FailedUnits []int64   `json:"failedUnits,omitempty"`
	CellCount   int       `json:"cellCount"`
	SubmittedAt time.Time `json:"submittedAt"`
	Outcome     string    `json:"outcome"`
}

// UnitFailure names a unit whose save failed and the service's message.
type UnitFailure struct {
	Unit    grid.UnitID
	Message string
}

// SaveReport tells the operator what happened: saved units lose their dirty
// flags, failed units keep them so a retry resubmits exactly the rest.
type SaveReport struct {
	SavedUnits []grid.UnitID
	Failures   []UnitFailure
	CellCount  int
}

func (r SaveReport) AllSaved() bool { return len(r.Failures) == 0 }

// Saver turns a session's dirty set into per-unit bulk requests. Saving is
// deliberately not transactional across units: each unit succeeds or fails
// on its own.
type Saver struct {
	Submitter Submitter
	Audit     AuditRecorder
	Events    EventPublisher
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Save submits every dirty unit. Cancellation aborts quietly with the
// context error; nothing is committed for the aborted remainder.
func (sv *Saver) Save(ctx context.Context, s *Session) (SaveReport, error) {
	diff, err := s.EncodeDiff()
	if err != nil {
		return SaveReport{}, err
	}
	report := SaveReport{CellCount: diff.CellCount()}
	if diff.Empty() {
		return report, nil
	}

	for _, unit := range diff.Units {
		single := grid.BulkUpdate{Units: []grid.UnitUpdate{unit}}
		err := sv.Submitter.SubmitBulk(ctx, s.GroupID, single)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return report, err
			}
			report.Failures = append(report.Failures, UnitFailure{Unit: unit.Unit, Message: err.Error()})
			sv.log("unit save failed", s, "unit_id", unit.Unit, "error", err)
			continue
		}
		s.CommitUnit(unit.Unit)
		report.SavedUnits = append(report.SavedUnits, unit.Unit)
	}

	if report.AllSaved() {
		s.ResetAfterSave()
	}
	sv.record(ctx, s, report)
	sv.announce(ctx, s, report)
	return report, nil
}

func (sv *Saver) record(ctx context.Context, s *Session, report SaveReport) {
	if sv.Audit == nil {
		return
	}
	now := time.Now()
	if sv.Clock != nil {
		now = sv.Clock()
	}
	entry := SubmissionRecord{
		SessionID:   s.ID,
		GroupID:     s.GroupID,
		CellCount:   report.CellCount,
		SubmittedAt: now,
		Outcome:     "saved",
	}
	for _, u := range report.SavedUnits {
		entry.Units = append(entry.Units, int64(u))
	}
	for _, f := range report.Failures {
		entry.FailedUnits = append(entry.FailedUnits, int64(f.Unit))
	}
	if !report.AllSaved() {
		entry.Outcome = "partial"
		if len(report.SavedUnits) == 0 {
			entry.Outcome = "failed"
		}
	}
	if err := sv.Audit.RecordSubmission(ctx, entry); err != nil {
		sv.log("audit record failed", s, "error", err)
	}
}

func (sv *Saver) announce(ctx context.Context, s *Session, report SaveReport) {
	if sv.Events == nil || len(report.SavedUnits) == 0 {
		return
	}
	if err := sv.Events.BulkUpdateApplied(ctx, s.GroupID, report.SavedUnits, report.CellCount); err != nil {
		sv.log("event publish failed", s, "error", err)
	}
}

func (sv *Saver) log(msg string, s *Session, args ...any) {
	if sv.Logger == nil {
		return
	}
	sv.Logger.Error(msg, append([]any{"group_id", s.GroupID, "session_id", s.ID}, args...)...)
}
