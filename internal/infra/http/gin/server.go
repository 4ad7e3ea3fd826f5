package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"ratedesk/internal/infra/config"
	"ratedesk/internal/infra/obs"
)

type SessionHTTP interface {
	Open(c *gin.Context)
	Get(c *gin.Context)
	Close(c *gin.Context)
	Pointer(c *gin.Context)
	Click(c *gin.Context)
	SelectRange(c *gin.Context)
	ClearSelection(c *gin.Context)
	SelectPlan(c *gin.Context)
	SetActiveUnits(c *gin.Context)
	SetWindow(c *gin.Context)
	Edit(c *gin.Context)
	DiscardEdits(c *gin.Context)
	Save(c *gin.Context)
}

type RatePlanHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Link(c *gin.Context)
	Unlink(c *gin.Context)
}

type BookingHTTP interface {
	UpdateStock(c *gin.Context)
	CreateLocal(c *gin.Context)
	DeleteLocal(c *gin.Context)
}

type AuditHTTP interface {
	Submissions(c *gin.Context)
	SyncStatus(c *gin.Context)
}

type Handlers struct {
	Session  SessionHTTP
	RatePlan RatePlanHTTP
	Booking  BookingHTTP
	Audit    AuditHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	registerValidations()
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Session != nil {
		api.POST("/groups/:groupId/sessions", h.Session.Open)
		sessions := api.Group("/sessions/:id")
		sessions.GET("", h.Session.Get)
		sessions.DELETE("", h.Session.Close)
		sessions.POST("/pointer", h.Session.Pointer)
		sessions.POST("/click", h.Session.Click)
		sessions.POST("/select-range", h.Session.SelectRange)
		sessions.POST("/clear-selection", h.Session.ClearSelection)
		sessions.POST("/plan", h.Session.SelectPlan)
		sessions.POST("/active-units", h.Session.SetActiveUnits)
		sessions.POST("/window", h.Session.SetWindow)
		sessions.POST("/edit", h.Session.Edit)
		sessions.POST("/discard-edits", h.Session.DiscardEdits)
		sessions.POST("/save", h.Session.Save)
	}
	if h.RatePlan != nil {
		plans := api.Group("/groups/:groupId/rate-plans")
		plans.GET("", h.RatePlan.List)
		plans.POST("", h.RatePlan.Create)
		plans.PUT("/:planId", h.RatePlan.Update)
		plans.DELETE("/:planId", h.RatePlan.Delete)
		plans.POST("/:planId/link", h.RatePlan.Link)
		plans.POST("/:planId/unlink", h.RatePlan.Unlink)
	}
	if h.Booking != nil {
		api.PUT("/groups/:groupId/units/:unitId/stock", h.Booking.UpdateStock)
		api.POST("/groups/:groupId/bookings", h.Booking.CreateLocal)
		api.DELETE("/groups/:groupId/bookings/:bookingId", h.Booking.DeleteLocal)
	}
	if h.Audit != nil {
		api.GET("/groups/:groupId/submissions", h.Audit.Submissions)
		api.GET("/groups/:groupId/sync-status", h.Audit.SyncStatus)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ SessionHTTP  = SessionHandler{}
	_ RatePlanHTTP = RatePlanHandler{}
	_ BookingHTTP  = BookingHandler{}
	_ AuditHTTP    = AuditHandler{}
)
