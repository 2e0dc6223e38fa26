// Package api exposes the service layer over HTTP with gin.
package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/service"
	"github.com/xaenox/trendpulse/pkg/config"
)

const (
	Name    = "TrendPulse AI API"
	Version = "3.0.0"
)

type Handler struct {
	service *service.Service
	metrics *Metrics
	logger  *zap.Logger
}

func NewHandler(svc *service.Service, metrics *Metrics, logger *zap.Logger) *Handler {
	registerValidators()
	return &Handler{
		service: svc,
		metrics: metrics,
		logger:  logger,
	}
}

// Router builds the gin engine with every route and middleware installed.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(RequestLogger(h.logger), Recovery(), h.metrics.Middleware())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/api-info", h.APIInfo)
	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:telegram_id", h.GetUser)
		users.PATCH("/:telegram_id", h.UpdateUser)
		users.GET("/:telegram_id/scenarios", h.ListUserScenarios)
		users.GET("/:telegram_id/scenarios/export", h.ExportUserScenarios)
		users.GET("/:telegram_id/land-plots", h.ListUserLandPlots)
	}

	projects := r.Group("/projects")
	{
		projects.POST("/", h.CreateProject)
		projects.GET("/", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.POST("/:id/scenarios/generate/", h.GenerateScenarios)
		projects.POST("/:id/scenarios/", h.CreateScenario)
		projects.GET("/:id/scenarios/", h.ListProjectScenarios)
		projects.POST("/:id/generate-pdf/", h.GenerateProjectReport)
	}

	plots := r.Group("/land-plots")
	{
		plots.POST("/", h.CreateLandPlot)
		plots.GET("/:id", h.GetLandPlot)
	}

	r.POST("/generate-scenarios", h.GenerateFromLandPlot)

	scenarios := r.Group("/scenarios")
	{
		scenarios.GET("/:id", h.GetScenario)
		scenarios.POST("/:id/generate-pdf", h.GenerateReport)
		scenarios.GET("/:id/reports", h.ListScenarioReports)
	}

	r.GET("/reports/:id", h.GetReport)
	r.GET("/downloads/:id", h.DownloadReport)

	contractors := r.Group("/contractors")
	{
		contractors.POST("/", h.CreateContractor)
		contractors.GET("/", h.ListContractors)
		contractors.GET("/:id", h.GetContractor)
	}

	market := r.Group("/market-data")
	{
		market.POST("/", h.UpsertMarketData)
		market.GET("/", h.ListMarketData)
	}

	sessions := r.Group("/sessions")
	{
		sessions.GET("/:telegram_id", h.GetSession)
		sessions.PUT("/:telegram_id", h.UpsertSession)
		sessions.DELETE("/:telegram_id", h.DeleteSession)
	}
}

// NewServer wraps the router with CORS and the configured timeouts.
// Credentials are allowed only for an explicit origin list.
func NewServer(cfg config.ServerConfig, router http.Handler) *http.Server {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Content-Disposition"},
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
		MaxAge:           300,
	})

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsHandler(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
