package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/educare-ngo/educare-api/internal/service"
	"github.com/educare-ngo/educare-api/pkg/response"
)

// StatsHandler exposes enrollment reporting endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// EnrollmentCounts godoc
// @Summary Enrollment counts per course in a date range
// @Tags Stats
// @Produce json
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /courses/stats/enrollments [get]
func (h *StatsHandler) EnrollmentCounts(c *gin.Context) {
	counts, err := h.stats.EnrollmentCounts(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, counts, len(counts))
}

// Export godoc
// @Summary Export enrollment counts as CSV or PDF
// @Tags Stats
// @Produce octet-stream
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {file} file
// @Router /courses/stats/enrollments/export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	export, err := h.stats.Export(c.Request.Context(), c.Query("start"), c.Query("end"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Content)
}
