package inventory

import (
	"context"

	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"
)

// EngineAdapter exposes the client through the narrow interfaces the
// session engine consumes (DataSource, Submitter, StatusSource).
type EngineAdapter struct {
	Client *Client
}

func (a EngineAdapter) LoadGrid(ctx context.Context, groupID int64, from, to day.Day) (*grid.Data, error) {
	units, err := a.Client.Units(ctx, groupID)
	if err != nil {
		return nil, err
	}
	data, err := a.Client.SupplierData(ctx, groupID, from, to)
	if err != nil {
		return nil, err
	}
	return MapSupplierData(units, data, grid.Window{From: from, To: to}), nil
}

func (a EngineAdapter) SubmitBulk(ctx context.Context, groupID int64, diff grid.BulkUpdate) error {
	return a.Client.BulkUpdate(ctx, groupID, MapBulkUpdate(diff))
}

func (a EngineAdapter) LastChange(ctx context.Context, groupID int64) (string, error) {
	status, err := a.Client.SyncStatus(ctx, groupID)
	if err != nil {
		return "", err
	}
	return status.LastChange, nil
}
