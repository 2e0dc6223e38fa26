package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpsertMarketData replaces the figures stored for the region and project type.
func (h *Handler) UpsertMarketData(c *gin.Context) {
	var req MarketDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	data, err := h.service.UpsertMarketData(c.Request.Context(), req.toModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) ListMarketData(c *gin.Context) {
	projectType, err := queryProjectType(c, "project_type")
	if err != nil {
		writeError(c, err)
		return
	}

	data, err := h.service.ListMarketData(c.Request.Context(), c.Query("region"), projectType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
