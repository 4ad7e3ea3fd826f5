package ginserver

import (
	"context"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/infra/inventory"
)

// RatePlanHandler passes rate-plan management through to the inventory
// service. No engine state is involved; the console refreshes its session
// window after structural changes.
type RatePlanHandler struct {
	Inventory *inventory.Client
}

func (h RatePlanHandler) List(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	plans, err := h.Inventory.RatePlans(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratePlans": plans})
}

type ratePlanRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

func (h RatePlanHandler) Create(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	var req ratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, err := h.Inventory.CreateRatePlan(c.Request.Context(), groupID, inventory.RatePlanRequest{Name: req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h RatePlanHandler) Update(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	planID, ok := pathInt64(c, "planId")
	if !ok {
		return
	}
	var req ratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Inventory.UpdateRatePlan(c.Request.Context(), groupID, planID, inventory.RatePlanRequest{Name: req.Name}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h RatePlanHandler) Delete(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	planID, ok := pathInt64(c, "planId")
	if !ok {
		return
	}
	if err := h.Inventory.DeleteRatePlan(c.Request.Context(), groupID, planID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type planLinkRequest struct {
	UnitID int64 `json:"unitId" binding:"required"`
}

func (h RatePlanHandler) Link(c *gin.Context) {
	h.link(c, h.Inventory.LinkRatePlan)
}

func (h RatePlanHandler) Unlink(c *gin.Context) {
	h.link(c, h.Inventory.UnlinkRatePlan)
}

func (h RatePlanHandler) link(c *gin.Context, op func(ctx context.Context, groupID, planID, unitID int64) error) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	planID, ok := pathInt64(c, "planId")
	if !ok {
		return
	}
	var req planLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := op(c.Request.Context(), groupID, planID, req.UnitID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
