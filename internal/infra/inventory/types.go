package inventory

import (
	"github.com/shopspring/decimal"

	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"
)

// Wire types for the remote inventory service. Field names follow the
// service's JSON contract; mapping into grid types happens in this package
// so the domain never sees wire shapes.

type UnitInfo struct {
	UnitID   int64  `json:"unitId"`
	UnitName string `json:"unitName"`
}

type StockDay struct {
	UnitID    int64   `json:"unitId"`
	Date      day.Day `json:"date"`
	Available int     `json:"available"`
}

type RateDay struct {
	UnitID     int64           `json:"unitId"`
	Date       day.Day         `json:"date"`
	RatePlanID int64           `json:"ratePlanId"`
	Price      decimal.Decimal `json:"price"`
}

type MinStayDay struct {
	UnitID     int64   `json:"unitId"`
	Date       day.Day `json:"date"`
	RatePlanID int64   `json:"ratePlanId"`
	MinStay    int     `json:"minStay"`
}

type ArrivalDay struct {
	UnitID     int64   `json:"unitId"`
	Date       day.Day `json:"date"`
	RatePlanID int64   `json:"ratePlanId"`
	Allowed    bool    `json:"allowed"`
}

type BookingInfo struct {
	BookingID int64   `json:"bookingId"`
	UnitID    int64   `json:"unitId"`
	Arrival   day.Day `json:"arrival"`
	Departure day.Day `json:"departure"`
	GuestName string  `json:"guestName"`
}

type RatePlanInfo struct {
	RatePlanID int64  `json:"ratePlanId"`
	Name       string `json:"name"`
}

type RatePlanLink struct {
	UnitID     int64 `json:"unitId"`
	RatePlanID int64 `json:"ratePlanId"`
}

type Promotion struct {
	PromotionID int64   `json:"promotionId"`
	UnitID      int64   `json:"unitId"`
	From        day.Day `json:"from"`
	To          day.Day `json:"to"`
	Percent     int     `json:"percent"`
}

// SupplierData is the merged per-unit, per-date snapshot the service
// returns for a group and date range.
type SupplierData struct {
	Stock          []StockDay       `json:"stock"`
	Rates          []RateDay        `json:"rates"`
	Promotions     []Promotion      `json:"promotions"`
	RatePlanLabels map[int64]string `json:"ratePlanLabels"`
	RatePlansList  []RatePlanInfo   `json:"ratePlansList"`
	MinStay        []MinStayDay     `json:"minStay"`
	ArrivalAllowed []ArrivalDay     `json:"arrivalAllowed"`
	Bookings       []BookingInfo    `json:"bookings"`
	RateTypeLinks  []RatePlanLink   `json:"rateTypeLinks"`
}

type BulkDateUpdate struct {
	Date           day.Day          `json:"date"`
	RatePlanID     *int64           `json:"ratePlanId,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	MinStay        *int             `json:"minStay,omitempty"`
	ArrivalAllowed *bool            `json:"arrivalAllowed,omitempty"`
}

type BulkUnitUpdate struct {
	UnitID int64            `json:"unitId"`
	Dates  []BulkDateUpdate `json:"dates"`
}

type BulkUpdateRequest struct {
	Units []BulkUnitUpdate `json:"units"`
}

type StockUpdate struct {
	Days []StockDayUpdate `json:"days"`
}

type StockDayUpdate struct {
	Date      day.Day `json:"date"`
	Available int     `json:"available"`
}

type LocalBookingRequest struct {
	UnitID    int64   `json:"unitId"`
	Arrival   day.Day `json:"arrival"`
	Departure day.Day `json:"departure"`
	GuestName string  `json:"guestName"`
}

type SyncStatus struct {
	LastChange   string `json:"lastChange"`
	PendingCount int    `json:"pendingCount"`
}

type RatePlanRequest struct {
	Name string `json:"name"`
}

// MapSupplierData normalizes the wire snapshot into flat composite-key
// lookups for the grid engine.
func MapSupplierData(units []UnitInfo, data *SupplierData, window grid.Window) *grid.Data {
	out := grid.NewData()
	out.Window = window
	for _, u := range units {
		out.Units = append(out.Units, grid.Unit{ID: grid.UnitID(u.UnitID), Name: u.UnitName})
	}
	if data == nil {
		return out
	}
	for _, s := range data.Stock {
		out.Stock[grid.CellKey{Unit: grid.UnitID(s.UnitID), Day: s.Date}] = s.Available
	}
	for _, r := range data.Rates {
		out.Prices[fieldKey(r.UnitID, r.Date, r.RatePlanID)] = r.Price
	}
	for _, m := range data.MinStay {
		out.MinStay[fieldKey(m.UnitID, m.Date, m.RatePlanID)] = m.MinStay
	}
	for _, a := range data.ArrivalAllowed {
		out.Arrival[fieldKey(a.UnitID, a.Date, a.RatePlanID)] = a.Allowed
	}
	for _, b := range data.Bookings {
		out.Bookings = append(out.Bookings, grid.Booking{
			ID:        b.BookingID,
			Unit:      grid.UnitID(b.UnitID),
			Arrival:   b.Arrival,
			Departure: b.Departure,
			GuestName: b.GuestName,
		})
	}
	for _, p := range data.RatePlansList {
		out.Plans = append(out.Plans, grid.RatePlan{ID: grid.PlanID(p.RatePlanID), Name: p.Name})
	}
	for _, l := range data.RateTypeLinks {
		unit := grid.UnitID(l.UnitID)
		out.Links[unit] = append(out.Links[unit], grid.PlanID(l.RatePlanID))
	}
	return out
}

func fieldKey(unit int64, d day.Day, plan int64) grid.FieldKey {
	return grid.FieldKey{Unit: grid.UnitID(unit), Day: d, Plan: grid.PlanID(plan)}
}

// MapBulkUpdate converts the engine's diff payload into the wire request.
func MapBulkUpdate(u grid.BulkUpdate) BulkUpdateRequest {
	req := BulkUpdateRequest{}
	for _, unit := range u.Units {
		wire := BulkUnitUpdate{UnitID: int64(unit.Unit)}
		for _, d := range unit.Dates {
			update := BulkDateUpdate{Date: d.Day}
			if d.Plan != 0 {
				plan := int64(d.Plan)
				update.RatePlanID = &plan
			}
			if d.Price != nil {
				price := *d.Price
				update.Price = &price
			}
			stay := d.MinStay
			update.MinStay = &stay
			arrival := d.Arrival
			update.ArrivalAllowed = &arrival
			wire.Dates = append(wire.Dates, update)
		}
		req.Units = append(req.Units, wire)
	}
	return req
}
