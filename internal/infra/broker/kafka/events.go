package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ratedesk/internal/domain/grid"
)

const bulkUpdateAppliedType = "inventory.bulk_update.applied.v1"

// EventPublisher wraps the producer with the single event this service
// emits: a bulk update was applied to the inventory service.
type EventPublisher struct {
	Producer    *Producer
	TopicPrefix string
	Source      string
}

type bulkUpdateAppliedPayload struct {
	GroupID int64   `json:"group_id"`
	UnitIDs []int64 `json:"unit_ids"`
	Cells   int     `json:"cells"`
}

func (p *EventPublisher) BulkUpdateApplied(ctx context.Context, groupID int64, units []grid.UnitID, cells int) error {
	unitIDs := make([]int64, 0, len(units))
	for _, u := range units {
		unitIDs = append(unitIDs, int64(u))
	}
	data, err := json.Marshal(bulkUpdateAppliedPayload{GroupID: groupID, UnitIDs: unitIDs, Cells: cells})
	if err != nil {
		return err
	}
	envelope := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            bulkUpdateAppliedType,
		"source":          p.source(),
		"time":            time.Now().UTC(),
		"datacontenttype": "application/json",
		"data":            json.RawMessage(data),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	topic := p.TopicPrefix + "inventory.bulk-updates"
	return p.Producer.Publish(ctx, topic, strconv.FormatInt(groupID, 10), payload, nil)
}

func (p *EventPublisher) source() string {
	if p.Source == "" {
		return "ratedesk"
	}
	return p.Source
}
