package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xaenox/trendpulse/internal/export"
)

func (h *Handler) CreateUser(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.toModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), telegramID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), telegramID, req.toPatch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUserScenarios(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	scenarios, err := h.service.ListUserScenarios(c.Request.Context(), telegramID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenarios)
}

// ExportUserScenarios answers with an xlsx workbook. The workbook is built in
// memory first so a failure can still be reported as JSON.
func (h *Handler) ExportUserScenarios(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportUserScenarios(c.Request.Context(), telegramID, &buf); err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("scenarios_%d.xlsx", telegramID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *Handler) ListUserLandPlots(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	plots, err := h.service.ListUserLandPlots(c.Request.Context(), telegramID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plots)
}
