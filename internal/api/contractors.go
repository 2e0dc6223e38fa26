package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateContractor(c *gin.Context) {
	var req ContractorCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	contractor, err := h.service.CreateContractor(c.Request.Context(), req.toModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

func (h *Handler) ListContractors(c *gin.Context) {
	page, err := queryPage(c)
	if err != nil {
		writeError(c, err)
		return
	}
	specialization, err := queryProjectType(c, "specialization")
	if err != nil {
		writeError(c, err)
		return
	}

	contractors, err := h.service.ListContractors(c.Request.Context(), page, specialization)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractors)
}

func (h *Handler) GetContractor(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	contractor, err := h.service.GetContractor(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}
