package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pharmaretail/dss-go/internal/report"
)

// ReportHandler generates PDF reports on demand and serves previously
// generated files for download.
type ReportHandler struct {
	reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Expiry(c *gin.Context) {
	h.generate(c, h.reports.Expiry)
}

func (h *ReportHandler) Restock(c *gin.Context) {
	h.generate(c, h.reports.Restock)
}

func (h *ReportHandler) Seasonal(c *gin.Context) {
	h.generate(c, h.reports.Seasonal)
}

func (h *ReportHandler) CustomerPatterns(c *gin.Context) {
	h.generate(c, h.reports.CustomerPatterns)
}

func (h *ReportHandler) SmartRecommendations(c *gin.Context) {
	h.generate(c, h.reports.SmartRecommendations)
}

func (h *ReportHandler) ProfitMargin(c *gin.Context) {
	h.generate(c, h.reports.ProfitMargin)
}

func (h *ReportHandler) Download(c *gin.Context) {
	path := h.reports.FilePath(c.Param("filename"))
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.FileAttachment(path, c.Param("filename"))
}

func (h *ReportHandler) generate(c *gin.Context, build func(ctx context.Context) (string, error)) {
	filename, err := build(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pdf_url": "/dss/reports/download/" + filename})
}
