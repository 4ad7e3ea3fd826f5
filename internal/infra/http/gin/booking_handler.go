package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/domain/day"
	"ratedesk/internal/infra/inventory"
)

// BookingHandler covers the passthrough operations that change inventory
// outside the editing buffer: stock adjustments and manually entered
// local bookings.
type BookingHandler struct {
	Inventory *inventory.Client
}

type stockDayRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Available int    `json:"available" binding:"min=0"`
}

type stockUpdateRequest struct {
	Days []stockDayRequest `json:"days" binding:"required,min=1,dive"`
}

func (h BookingHandler) UpdateStock(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	unitID, ok := pathInt64(c, "unitId")
	if !ok {
		return
	}
	var req stockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update := inventory.StockUpdate{Days: make([]inventory.StockDayUpdate, 0, len(req.Days))}
	for _, d := range req.Days {
		parsed, _ := day.Parse(d.Date)
		update.Days = append(update.Days, inventory.StockDayUpdate{Date: parsed, Available: d.Available})
	}
	if err := h.Inventory.UpdateStock(c.Request.Context(), groupID, unitID, update); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type localBookingRequest struct {
	UnitID    int64  `json:"unitId" binding:"required"`
	Arrival   string `json:"arrival" binding:"required,datetime=2006-01-02"`
	Departure string `json:"departure" binding:"required,datetime=2006-01-02"`
	GuestName string `json:"guestName" binding:"required,min=1,max=200"`
}

func (h BookingHandler) CreateLocal(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	var req localBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	arrival, _ := day.Parse(req.Arrival)
	departure, _ := day.Parse(req.Departure)
	booking, err := h.Inventory.CreateLocalBooking(c.Request.Context(), groupID, inventory.LocalBookingRequest{
		UnitID:    req.UnitID,
		Arrival:   arrival,
		Departure: departure,
		GuestName: req.GuestName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h BookingHandler) DeleteLocal(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	bookingID, ok := pathInt64(c, "bookingId")
	if !ok {
		return
	}
	if err := h.Inventory.DeleteLocalBooking(c.Request.Context(), groupID, bookingID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
