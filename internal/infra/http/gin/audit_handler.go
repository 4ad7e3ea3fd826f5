package ginserver

import (
	"context"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/app/session"
	"ratedesk/internal/infra/inventory"
)

// AuditReader lists past bulk-update submissions for a group.
type AuditReader interface {
	Recent(ctx context.Context, groupID int64, limit int64) ([]session.SubmissionRecord, error)
}

type AuditHandler struct {
	Audit     AuditReader
	Inventory *inventory.Client
}

const defaultAuditLimit = 20

func (h AuditHandler) Submissions(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	if h.Audit == nil {
		c.JSON(http.StatusOK, gin.H{"submissions": []session.SubmissionRecord{}})
		return
	}
	limit := int64(defaultAuditLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	records, err := h.Audit.Recent(c.Request.Context(), groupID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []session.SubmissionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"submissions": records})
}

func (h AuditHandler) SyncStatus(c *gin.Context) {
	groupID, ok := pathInt64(c, "groupId")
	if !ok {
		return
	}
	status, err := h.Inventory.SyncStatus(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
