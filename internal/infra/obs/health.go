package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers exposes liveness and readiness endpoints. Readiness runs
// the registered per-component checks and names the backends that are
// currently unreachable, so a degraded optional integration stays visible
// without failing liveness.
type HealthHandlers struct {
	Checks map[string]func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	degraded := gin.H{}
	for name, check := range h.Checks {
		if check == nil {
			continue
		}
		if err := check(); err != nil {
			degraded[name] = err.Error()
		}
	}
	if len(degraded) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "components": degraded})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
