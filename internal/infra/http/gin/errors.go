package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/app/session"
	"ratedesk/internal/domain/grid"
	"ratedesk/internal/infra/inventory"
)

// writeError maps engine and service failures onto HTTP responses.
// Validation failures never reached the service; transport failures mean
// the inventory service is unreachable; cancellations are silent no-ops.
func writeError(c *gin.Context, err error) {
	var apiErr *inventory.APIError
	var transport *inventory.TransportError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, grid.ErrIneligibleCell),
		errors.Is(err, grid.ErrInvalidPrice),
		errors.Is(err, grid.ErrInvalidMinStay),
		errors.Is(err, grid.ErrMalformedKey):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case inventory.IsCancelled(err):
		c.Status(http.StatusNoContent)
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
	case errors.As(err, &transport):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cannot reach inventory service"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
