package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSession(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), telegramID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpsertSession replaces only the fields present in the body.
func (h *Handler) UpsertSession(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	session, err := h.service.UpsertSession(c.Request.Context(), telegramID, req.State, req.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	telegramID, err := pathInt64(c, "telegram_id")
	if err != nil {
		writeError(c, err)
		return
	}

	deleted, err := h.service.DeleteSession(c.Request.Context(), telegramID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
