package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ratedesk/internal/app/session"
)

const auditCollection = "bulk_update_audit"

// AuditRepository keeps one document per bulk-update submission so
// operators can review what was pushed to the inventory service and when.
// The editing state itself is never persisted; only submissions are.
type AuditRepository struct {
	col *mongo.Collection
}

type auditDocument struct {
	SessionID   string    `bson:"session_id"`
	GroupID     int64     `bson:"group_id"`
	Units       []int64   `bson:"units"`
	FailedUnits []int64   `bson:"failed_units,omitempty"`
	CellCount   int       `bson:"cell_count"`
	SubmittedAt time.Time `bson:"submitted_at"`
	Outcome     string    `bson:"outcome"`
}

func NewAuditRepository(client *Client) *AuditRepository {
	return &AuditRepository{col: client.DB.Collection(auditCollection)}
}

func (r *AuditRepository) RecordSubmission(ctx context.Context, entry session.SubmissionRecord) error {
	doc := auditDocument{
		SessionID:   entry.SessionID,
		GroupID:     entry.GroupID,
		Units:       entry.Units,
		FailedUnits: entry.FailedUnits,
		CellCount:   entry.CellCount,
		SubmittedAt: entry.SubmittedAt.UTC(),
		Outcome:     entry.Outcome,
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// Recent returns the newest submissions for a group, most recent first.
func (r *AuditRepository) Recent(ctx context.Context, groupID int64, limit int64) ([]session.SubmissionRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.col.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []session.SubmissionRecord
	for cursor.Next(ctx) {
		var doc auditDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, session.SubmissionRecord{
			SessionID:   doc.SessionID,
			GroupID:     doc.GroupID,
			Units:       doc.Units,
			FailedUnits: doc.FailedUnits,
			CellCount:   doc.CellCount,
			SubmittedAt: doc.SubmittedAt,
			Outcome:     doc.Outcome,
		})
	}
	return out, cursor.Err()
}
