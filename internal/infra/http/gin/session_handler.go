package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/app/session"
	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"

	"github.com/shopspring/decimal"
)

type SessionHandler struct {
	Sessions *session.Manager
	Loader   *session.Loader
	Saver    *session.Saver
}

type openSessionRequest struct {
	From string `json:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to" binding:"required,datetime=2006-01-02"`
}

func (h SessionHandler) Open(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, _ := day.Parse(req.From)
	to, _ := day.Parse(req.To)

	s := h.Sessions.Open(groupID)
	if err := h.Loader.Load(c.Request.Context(), s, from, to); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionState(s))
}

func (h SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionState(s))
}

func (h SessionHandler) Close(c *gin.Context) {
	h.Sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

type cellRef struct {
	UnitID int64  `json:"unitId" binding:"required"`
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
}

func (r cellRef) key() grid.CellKey {
	d, _ := day.Parse(r.Date)
	return grid.CellKey{Unit: grid.UnitID(r.UnitID), Day: d}
}

type pointerRequest struct {
	Phase    string   `json:"phase" binding:"required,oneof=press move release"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Cell     *cellRef `json:"cell"`
	Column   *string  `json:"column"`
	Modifier bool     `json:"modifier"`
	Replace  bool     `json:"replace"`
}

// Pointer feeds one resolved pointer event into the drag selector. The
// console resolves coordinates to cells and headers before calling.
func (h SessionHandler) Pointer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pos := grid.Point{X: req.X, Y: req.Y}
	switch req.Phase {
	case "press":
		if req.Cell == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "press requires a cell"})
			return
		}
		s.PointerPress(req.Cell.key(), pos, req.Modifier)
	case "move":
		if req.Cell != nil {
			s.PointerMove(pos, req.Cell.key(), true)
		} else {
			s.PointerMove(pos, grid.CellKey{}, false)
		}
	case "release":
		target := grid.ReleaseTarget{}
		if req.Cell != nil {
			key := req.Cell.key()
			target.Cell = &key
		} else if req.Column != nil {
			col, err := day.Parse(*req.Column)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			target.Column = &col
		}
		s.PointerRelease(target, req.Replace)
	}
	c.JSON(http.StatusOK, selectionState(s))
}

func (h SessionHandler) Click(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req cellRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Click(req.key())
	c.JSON(http.StatusOK, selectionState(s))
}

type selectRangeRequest struct {
	Weekdays []time.Weekday `json:"weekdays" binding:"omitempty,dive,min=0,max=6"`
}

// SelectRange is the select-everything keyboard operation, optionally
// restricted to a weekday subset.
func (h SessionHandler) SelectRange(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req selectRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var weekdays map[time.Weekday]struct{}
	if len(req.Weekdays) > 0 {
		weekdays = make(map[time.Weekday]struct{}, len(req.Weekdays))
		for _, wd := range req.Weekdays {
			weekdays[wd] = struct{}{}
		}
	}
	s.SelectVisibleRange(weekdays)
	c.JSON(http.StatusOK, selectionState(s))
}

func (h SessionHandler) ClearSelection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.ClearSelection()
	c.JSON(http.StatusOK, selectionState(s))
}

type selectPlanRequest struct {
	RatePlanID int64 `json:"ratePlanId" binding:"required"`
}

func (h SessionHandler) SelectPlan(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req selectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.SelectPlan(grid.PlanID(req.RatePlanID))
	c.JSON(http.StatusOK, sessionState(s))
}

type activeUnitsRequest struct {
	UnitIDs []int64 `json:"unitIds"`
}

func (h SessionHandler) SetActiveUnits(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req activeUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	units := make([]grid.UnitID, 0, len(req.UnitIDs))
	for _, id := range req.UnitIDs {
		units = append(units, grid.UnitID(id))
	}
	s.SetActiveUnits(units)
	c.JSON(http.StatusOK, selectionState(s))
}

type windowRequest struct {
	From string `json:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to" binding:"required,datetime=2006-01-02"`
}

// SetWindow reloads the session for a new visible date range: reset to
// today and window panning both land here.
func (h SessionHandler) SetWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, _ := day.Parse(req.From)
	to, _ := day.Parse(req.To)
	if err := h.Loader.Load(c.Request.Context(), s, from, to); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionState(s))
}

type editRequest struct {
	Cell             cellRef `json:"cell" binding:"required"`
	Field            string  `json:"field" binding:"required,oneof=price minStay arrivalAllowed"`
	Price            string  `json:"price"`
	MinStay          int     `json:"minStay"`
	ArrivalAllowed   bool    `json:"arrivalAllowed"`
	ApplyToSelection bool    `json:"applyToSelection"`
}

// Edit stages one value; applyToSelection is the ctrl/cmd-modified commit
// that writes the value to the whole current selection.
func (h SessionHandler) Edit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cell := req.Cell.key()
	var err error
	switch req.Field {
	case "price":
		var price decimal.Decimal
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		err = s.EditPrice(price, cell, req.ApplyToSelection)
	case "minStay":
		err = s.EditMinStay(req.MinStay, cell, req.ApplyToSelection)
	case "arrivalAllowed":
		err = s.EditArrivalAllowed(req.ArrivalAllowed, cell, req.ApplyToSelection)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dirty": cellRefs(s.DirtyCells())})
}

func (h SessionHandler) DiscardEdits(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.DiscardEdits()
	c.JSON(http.StatusOK, gin.H{"dirty": cellRefs(s.DirtyCells())})
}

func (h SessionHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	report, err := h.Saver.Save(c.Request.Context(), s)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if !report.AllSaved() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, saveReportResponse(report))
}

func (h SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return s, true
}

func pathInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// Response shapes.

type cellResponse struct {
	UnitID int64  `json:"unitId"`
	Date   string `json:"date"`
}

func cellRefs(cells []grid.CellKey) []cellResponse {
	out := make([]cellResponse, 0, len(cells))
	for _, k := range cells {
		out = append(out, cellResponse{UnitID: int64(k.Unit), Date: k.Day.String()})
	}
	return out
}

func selectionState(s *session.Session) gin.H {
	return gin.H{"selection": cellRefs(s.SelectionCells())}
}

func sessionState(s *session.Session) gin.H {
	w := s.Window()
	units := s.Units()
	unitsOut := make([]gin.H, 0, len(units))
	for _, u := range units {
		unitsOut = append(unitsOut, gin.H{"unitId": int64(u.ID), "unitName": u.Name})
	}
	return gin.H{
		"sessionId":     s.ID,
		"groupId":       s.GroupID,
		"window":        gin.H{"from": w.From.String(), "to": w.To.String()},
		"units":         unitsOut,
		"selectedPlan":  int64(s.SelectedPlan()),
		"selection":     cellRefs(s.SelectionCells()),
		"dirty":         cellRefs(s.DirtyCells()),
		"nonReservable": cellRefs(s.NonReservableCells()),
	}
}

func saveReportResponse(report session.SaveReport) gin.H {
	failures := make([]gin.H, 0, len(report.Failures))
	for _, f := range report.Failures {
		failures = append(failures, gin.H{"unitId": int64(f.Unit), "message": f.Message})
	}
	saved := make([]int64, 0, len(report.SavedUnits))
	for _, u := range report.SavedUnits {
		saved = append(saved, int64(u))
	}
	return gin.H{"savedUnits": saved, "failures": failures, "cells": report.CellCount}
}
