package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xaenox/trendpulse/internal/scenario"
)

func (h *Handler) CreateProject(c *gin.Context) {
	var req ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), req.toModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	page, err := queryPage(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var userID *int64
	if _, ok := c.GetQuery("user_id"); ok {
		id, err := queryInt(c, "user_id", 0)
		if err != nil {
			writeError(c, err)
			return
		}
		uid := int64(id)
		userID = &uid
	}

	projects, err := h.service.ListProjects(c.Request.Context(), page, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) GenerateScenarios(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	count, err := queryInt(c, "count", scenario.DefaultCount)
	if err != nil {
		writeError(c, err)
		return
	}

	scenarios, err := h.service.GenerateScenarios(c.Request.Context(), id, count)
	if err != nil {
		writeError(c, err)
		return
	}
	h.metrics.scenariosGenerated.WithLabelValues("project").Add(float64(len(scenarios)))
	c.JSON(http.StatusOK, scenarios)
}

func (h *Handler) CreateScenario(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req ScenarioCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	sc, err := h.service.CreateScenario(c.Request.Context(), id, req.toManual())
	if err != nil {
		writeError(c, err)
		return
	}
	h.metrics.scenariosGenerated.WithLabelValues("manual").Inc()
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) GenerateProjectReport(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	artifact, err := h.service.GenerateProjectReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	h.metrics.reportsGenerated.WithLabelValues("project").Inc()
	c.JSON(http.StatusOK, ProjectReportResponse{
		PDFPath:  artifact.Path,
		Filename: artifact.Name,
		FileSize: artifact.Size,
		Message:  "PDF успешно сгенерирован",
	})
}

func (h *Handler) ListProjectScenarios(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	scenarios, err := h.service.ListProjectScenarios(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenarios)
}

func (h *Handler) CreateLandPlot(c *gin.Context) {
	var req LandPlotCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	plot := req.toModel()
	plot.UserID = req.UserID
	created, err := h.service.CreateLandPlot(c.Request.Context(), &plot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) GetLandPlot(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	plot, err := h.service.GetLandPlot(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plot)
}
