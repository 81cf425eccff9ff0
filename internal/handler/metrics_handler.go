package handler

import (
	"fmt"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	svc *service.MetricsService
}

func NewMetricsHandler(svc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		BadRequest(c, fmt.Sprintf("%s must be YYYY-MM-DD", name))
		return nil, false
	}
	return &t, true
}

// Dashboard returns the metrics snapshot, optionally restricted to a
// creation-date window.
// GET /api/v1/metrics?date_from=YYYY-MM-DD&date_to=YYYY-MM-DD
func (h *MetricsHandler) Dashboard(c *gin.Context) {
	from, ok := parseDateParam(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "date_to")
	if !ok {
		return
	}

	snapshot, err := h.svc.Dashboard(c.Request.Context(), GetUserID(c), from, to)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, snapshot)
}

// Export downloads the snapshot as an Excel workbook.
// GET /api/v1/metrics/export?date_from=YYYY-MM-DD&date_to=YYYY-MM-DD
func (h *MetricsHandler) Export(c *gin.Context) {
	from, ok := parseDateParam(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "date_to")
	if !ok {
		return
	}

	data, err := h.svc.ExportXLSX(c.Request.Context(), GetUserID(c), from, to)
	if err != nil {
		FailFromError(c, err)
		return
	}

	filename := fmt.Sprintf("metrics_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
