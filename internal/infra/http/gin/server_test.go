package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ratedesk/internal/app/session"
	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"
	"ratedesk/internal/infra/config"
	"ratedesk/internal/infra/obs"
)

type stubSource struct {
	data *grid.Data
}

func (s stubSource) LoadGrid(_ context.Context, _ int64, from, to day.Day) (*grid.Data, error) {
	s.data.Window = grid.Window{From: from, To: to}
	return s.data, nil
}

type stubSubmitter struct {
	calls []grid.UnitID
}

func (s *stubSubmitter) SubmitBulk(_ context.Context, _ int64, diff grid.BulkUpdate) error {
	for _, u := range diff.Units {
		s.calls = append(s.calls, u.Unit)
	}
	return nil
}

func fixtureData() *grid.Data {
	data := grid.NewData()
	data.Units = []grid.Unit{{ID: 1, Name: "Seaview"}}
	data.Plans = []grid.RatePlan{{ID: 10, Name: "Standard"}}
	data.Links[1] = []grid.PlanID{10}
	for _, d := range day.Range(day.MustParse("2025-06-10"), day.MustParse("2025-06-12")) {
		cell := grid.CellKey{Unit: 1, Day: d}
		data.Stock[cell] = 1
		data.Prices[grid.FieldKey{Unit: 1, Day: d, Plan: 10}] = decimal.NewFromInt(120)
	}
	return data
}

func newTestServer(t *testing.T) (*http.Server, *stubSubmitter) {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	manager := session.NewManager(clock)
	loader := session.NewLoader(stubSource{data: fixtureData()}, nil)
	submitter := &stubSubmitter{}
	saver := &session.Saver{Submitter: submitter, Clock: clock}

	handler := SessionHandler{Sessions: manager, Loader: loader, Saver: saver}
	cfg := config.Config{Env: "test", HTTPAddr: ":0"}
	srv := NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{Session: handler})
	return srv, submitter
}

func doJSON(t *testing.T, srv *http.Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func openTestSession(t *testing.T, srv *http.Server) string {
	t.Helper()
	rec, body := doJSON(t, srv, http.MethodPost, "/api/v1/groups/7/sessions", map[string]string{
		"from": "2025-06-10",
		"to":   "2025-06-12",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("open session: status %d body %s", rec.Code, rec.Body.String())
	}
	id, _ := body["sessionId"].(string)
	if id == "" {
		t.Fatalf("open session: missing sessionId in %v", body)
	}
	return id
}

func TestOpenSessionReturnsState(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, body := doJSON(t, srv, http.MethodPost, "/api/v1/groups/7/sessions", map[string]string{
		"from": "2025-06-10",
		"to":   "2025-06-12",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	units, _ := body["units"].([]any)
	if len(units) != 1 {
		t.Fatalf("units = %v, want one", body["units"])
	}
	window, _ := body["window"].(map[string]any)
	if window["from"] != "2025-06-10" || window["to"] != "2025-06-12" {
		t.Fatalf("window = %v", window)
	}
}

func TestOpenSessionRejectsBadDates(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/groups/7/sessions", map[string]string{
		"from": "June 10th",
		"to":   "2025-06-12",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/sessions/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestClickEditSaveRoundTrip(t *testing.T) {
	srv, submitter := newTestServer(t)
	id := openTestSession(t, srv)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/plan", map[string]any{
		"ratePlanId": 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("select plan: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, body := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/click", map[string]any{
		"unitId": 1,
		"date":   "2025-06-10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("click: status %d body %s", rec.Code, rec.Body.String())
	}
	if sel, _ := body["selection"].([]any); len(sel) != 1 {
		t.Fatalf("selection = %v, want one cell", body["selection"])
	}

	rec, body = doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/edit", map[string]any{
		"cell":             map[string]any{"unitId": 1, "date": "2025-06-10"},
		"field":            "price",
		"price":            "150",
		"applyToSelection": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit: status %d body %s", rec.Code, rec.Body.String())
	}
	if dirty, _ := body["dirty"].([]any); len(dirty) != 1 {
		t.Fatalf("dirty = %v, want one cell", body["dirty"])
	}

	rec, body = doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: status %d body %s", rec.Code, rec.Body.String())
	}
	if saved, _ := body["savedUnits"].([]any); len(saved) != 1 {
		t.Fatalf("savedUnits = %v, want one", body["savedUnits"])
	}
	if len(submitter.calls) != 1 || submitter.calls[0] != 1 {
		t.Fatalf("submitted units = %v, want [1]", submitter.calls)
	}
}

func TestEditRejectsNonPositivePrice(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openTestSession(t, srv)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/edit", map[string]any{
		"cell":  map[string]any{"unitId": 1, "date": "2025-06-10"},
		"field": "price",
		"price": "-4",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestSelectRangeFiltersWeekdays(t *testing.T) {
	srv, _ := newTestServer(t)
	id := openTestSession(t, srv)

	// 2025-06-10 is a Tuesday.
	rec, body := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/select-range", map[string]any{
		"weekdays": []int{int(time.Tuesday)},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	sel, _ := body["selection"].([]any)
	if len(sel) != 1 {
		t.Fatalf("selection = %v, want only the Tuesday", body["selection"])
	}
}
