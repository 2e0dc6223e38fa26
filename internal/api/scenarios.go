package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerateFromLandPlot serves the chat flow: user, plot, project and
// scenarios are created together.
func (h *Handler) GenerateFromLandPlot(c *gin.Context) {
	var req GenerateScenariosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	scenarios, err := h.service.GenerateFromLandPlot(c.Request.Context(), req.toServiceRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	h.metrics.scenariosGenerated.WithLabelValues("land_plot").Add(float64(len(scenarios)))
	c.JSON(http.StatusOK, scenarios)
}

func (h *Handler) GetScenario(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	sc, err := h.service.GetScenario(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}
