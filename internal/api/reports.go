package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/trendpulse/internal/logger"
	"github.com/xaenox/trendpulse/internal/models"
)

func (h *Handler) GenerateReport(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	reportType := models.ReportType(c.DefaultQuery("report_type", string(models.ReportPreFeasibility)))

	r, err := h.service.GenerateReport(c.Request.Context(), id, reportType)
	if err != nil {
		writeError(c, err)
		return
	}
	h.metrics.reportsGenerated.WithLabelValues(string(reportType)).Inc()

	c.JSON(http.StatusOK, ReportResponse{
		ReportID:    r.ID,
		Filename:    path.Base(r.FilePath),
		FileSize:    r.FileSize,
		DownloadURL: "/downloads/" + strconv.FormatInt(r.ID, 10),
	})
}

func (h *Handler) GetReport(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	r, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) ListScenarioReports(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	reports, err := h.service.ListScenarioReports(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// DownloadReport streams the stored PDF.
func (h *Handler) DownloadReport(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	r, rc, err := h.service.OpenReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, path.Base(r.FilePath)))
	c.Header("Content-Type", "application/pdf")
	if r.FileSize > 0 {
		c.Header("Content-Length", strconv.FormatInt(r.FileSize, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.FromContext(c.Request.Context()).Warn("Report download interrupted",
			zap.Error(err),
			zap.Int64("report_id", id))
	}
}
