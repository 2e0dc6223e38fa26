package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/logger"
	"github.com/xaenox/trendpulse/internal/models"
)

const description = "Цифровая экосистема девелопмента"

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "TrendPulse API работает!",
		"version":     Version,
		"description": description,
		"endpoints": gin.H{
			"scenarios":          "/scenarios/{id} - Сценарии развития участка",
			"generate_scenarios": "/generate-scenarios - Генерация персонализированных сценариев",
			"projects":           "/projects - Проекты и генерация сценариев",
			"contractors":        "/contractors - База подрядчиков",
			"users":              "/users - Управление пользователями",
			"land_plots":         "/land-plots - Управление участками",
			"reports":            "/scenarios/{id}/generate-pdf - Генерация PDF отчетов",
			"project_reports":    "/projects/{id}/generate-pdf - PDF сводка по проекту",
			"market_data":        "/market-data - Рыночные данные по регионам",
			"health":             "/health - Проверка состояния",
			"stats":              "/stats - Статистика системы",
			"metrics":            "/metrics - Метрики Prometheus",
		},
	})
}

func (h *Handler) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        Name,
		"version":     Version,
		"description": description,
		"capabilities": gin.H{
			"scenario_generation": "Генерация персонализированных сценариев с unit-экономикой",
			"contractor_matching": "Подбор подходящих подрядчиков",
			"pdf_reports":         "Генерация пред-ТЭО и инвестиционных меморандумов",
			"recommendations":     "Рекомендации для улучшения проектов",
			"risk_assessment":     "Оценка рисков и рыночного спроса",
			"user_management":     "Управление пользователями и их данными",
			"analytics":           "Статистика и аналитика системы",
		},
		"supported_project_types": models.ProjectTypes,
		"supported_infrastructure": models.InfrastructureTypes,
		"supported_zones":          models.ZoneTypes,
		"supported_report_types":   []models.ReportType{models.ReportPreFeasibility, models.ReportInvestmentMemo},
	})
}

// Health answers 200 even when the database is down; see the database field.
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Version: Version, Database: "ok"}
	if err := h.service.Ping(c.Request.Context()); err != nil {
		logger.FromContext(c.Request.Context()).Warn("Database ping failed", zap.Error(err))
		resp.Database = "unavailable"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
