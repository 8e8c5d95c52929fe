package router

import (
	"net/http"

	"csv_manager_backend/internal/handlers"
	"csv_manager_backend/internal/middleware"
	"csv_manager_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies carries the services and settings the routes are built from.
type Dependencies struct {
	SessionService  services.SessionService
	TemplateService services.TemplateService
	AuthService     services.AuthService

	DataDir        string
	DefaultFile    string
	MaxUploadBytes int64

	// Basic auth for /metrics; an empty username leaves it open.
	MetricsUsername string
	MetricsPassword string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	sessionHandler := handlers.NewSessionHandler(deps.SessionService, deps.DataDir, deps.DefaultFile, deps.MaxUploadBytes)
	calendarHandler := handlers.NewCalendarHandler(deps.SessionService)
	templateHandler := handlers.NewTemplateHandler(deps.TemplateService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	SetupMetricsRoute(engine, deps.MetricsUsername, deps.MetricsPassword)

	apiV1 := engine.Group("/api/v1")
	SetupAuthRoutes(apiV1, authHandler)

	// Read-only routes stay public; mutations go through AuthMiddleware,
	// which lets everything through when no operator is configured.
	requireOperator := middleware.AuthMiddleware(deps.AuthService)
	SetupSessionRoutes(apiV1, sessionHandler, requireOperator)
	SetupCalendarRoutes(apiV1, calendarHandler)
	SetupTemplateRoutes(apiV1, templateHandler)
}

// SetupMetricsRoute exposes the Prometheus registry.
func SetupMetricsRoute(engine *gin.Engine, username, password string) {
	metricsHandler := gin.WrapH(promhttp.Handler())
	if username == "" {
		engine.GET("/metrics", metricsHandler)
		return
	}
	engine.GET("/metrics", gin.BasicAuth(gin.Accounts{username: password}), metricsHandler)
}
