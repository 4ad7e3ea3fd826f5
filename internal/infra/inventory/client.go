package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"ratedesk/internal/domain/day"
)

// Client talks to the remote inventory/booking service. The service is the
// source of truth; every call here is a plain request/response round trip
// with the caller's context governing cancellation.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Logger  *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTP: httpClient, BaseURL: baseURL, Logger: logger}
}

func (c *Client) Units(ctx context.Context, groupID int64) ([]UnitInfo, error) {
	var out []UnitInfo
	path := fmt.Sprintf("/groups/%d/units", groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SupplierData(ctx context.Context, groupID int64, from, to day.Day) (*SupplierData, error) {
	var out SupplierData
	path := fmt.Sprintf("/groups/%d/supplier-data?%s", groupID, url.Values{
		"from": {from.String()},
		"to":   {to.String()},
	}.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BulkUpdate(ctx context.Context, groupID int64, req BulkUpdateRequest) error {
	path := fmt.Sprintf("/groups/%d/bulk-update", groupID)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) UpdateStock(ctx context.Context, groupID, unitID int64, update StockUpdate) error {
	path := fmt.Sprintf("/groups/%d/units/%d/stock", groupID, unitID)
	return c.do(ctx, http.MethodPost, path, update, nil)
}

func (c *Client) CreateLocalBooking(ctx context.Context, groupID int64, req LocalBookingRequest) (BookingInfo, error) {
	var out BookingInfo
	path := fmt.Sprintf("/groups/%d/local-bookings", groupID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return BookingInfo{}, err
	}
	return out, nil
}

func (c *Client) DeleteLocalBooking(ctx context.Context, groupID, bookingID int64) error {
	path := fmt.Sprintf("/groups/%d/local-bookings/%d", groupID, bookingID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) SyncStatus(ctx context.Context, groupID int64) (SyncStatus, error) {
	var out SyncStatus
	path := fmt.Sprintf("/groups/%d/sync-status", groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return SyncStatus{}, err
	}
	return out, nil
}

func (c *Client) RatePlans(ctx context.Context, groupID int64) ([]RatePlanInfo, error) {
	var out []RatePlanInfo
	path := fmt.Sprintf("/groups/%d/rate-plans", groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRatePlan(ctx context.Context, groupID int64, req RatePlanRequest) (RatePlanInfo, error) {
	var out RatePlanInfo
	path := fmt.Sprintf("/groups/%d/rate-plans", groupID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return RatePlanInfo{}, err
	}
	return out, nil
}

func (c *Client) UpdateRatePlan(ctx context.Context, groupID, planID int64, req RatePlanRequest) error {
	path := fmt.Sprintf("/groups/%d/rate-plans/%d", groupID, planID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

func (c *Client) DeleteRatePlan(ctx context.Context, groupID, planID int64) error {
	path := fmt.Sprintf("/groups/%d/rate-plans/%d", groupID, planID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) LinkRatePlan(ctx context.Context, groupID, planID, unitID int64) error {
	path := fmt.Sprintf("/groups/%d/rate-plans/%d/units/%d", groupID, planID, unitID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) UnlinkRatePlan(ctx context.Context, groupID, planID, unitID int64) error {
	path := fmt.Sprintf("/groups/%d/rate-plans/%d/units/%d", groupID, planID, unitID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type apiFailure struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded or aborted request; not a transport failure.
			return ctx.Err()
		}
		c.logError(method, path, err)
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := parseFailureMessage(snippet)
		err := &APIError{Status: resp.StatusCode, Message: msg}
		c.logError(method, path, err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logError(method, path, err)
		return &TransportError{Op: method + " " + path, Err: err}
	}
	return nil
}

func parseFailureMessage(snippet []byte) string {
	var failure apiFailure
	if err := json.Unmarshal(snippet, &failure); err == nil {
		if failure.Message != "" {
			return failure.Message
		}
		if failure.Error != "" {
			return failure.Error
		}
	}
	return string(snippet)
}

func (c *Client) logError(method, path string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error("inventory request failed", "method", method, "path", path, "error", err)
}
