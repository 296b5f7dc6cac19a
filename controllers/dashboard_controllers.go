package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// DashboardController serves the overview page data and the analytics API.
type DashboardController struct {
	Reports *services.ReportService
	Export  *services.Exporter
}

func NewDashboardController(reports *services.ReportService, export *services.Exporter) *DashboardController {
	return &DashboardController{Reports: reports, Export: export}
}

// Overview -> GET /dashboard
func (dc *DashboardController) Overview(c *gin.Context) {
	overview, err := dc.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, "dashboard", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", overview)
}

// Stats -> GET /api/dashboard/stats?period=today|week|month|year
func (dc *DashboardController) Stats(c *gin.Context) {
	stats, err := dc.Reports.PeriodStats(c.Request.Context(), c.DefaultQuery("period", "today"))
	if err != nil {
		respondServiceError(c, "period stats", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stats", stats)
}

// RevenueChart -> GET /api/dashboard/chart/revenue?type=daily|weekly|monthly
func (dc *DashboardController) RevenueChart(c *gin.Context) {
	series, err := dc.Reports.RevenueSeries(c.Request.Context(), c.DefaultQuery("type", services.SeriesDaily))
	if err != nil {
		respondServiceError(c, "revenue chart", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue chart", series)
}

// RevenueChartPNG -> GET /api/dashboard/chart/revenue.png?type=
// Replies 204 when the window has no revenue to draw.
func (dc *DashboardController) RevenueChartPNG(c *gin.Context) {
	series, err := dc.Reports.RevenueSeries(c.Request.Context(), c.DefaultQuery("type", services.SeriesDaily))
	if err != nil {
		respondServiceError(c, "revenue chart", err)
		return
	}

	var buf bytes.Buffer
	if err := dc.Export.RevenuePNG(&buf, series); err != nil {
		if errors.Is(err, services.ErrNoChartData) {
			c.Status(http.StatusNoContent)
			return
		}
		respondServiceError(c, "render revenue chart", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// ReportPDF -> GET /api/dashboard/report.pdf?period=
func (dc *DashboardController) ReportPDF(c *gin.Context) {
	stats, err := dc.Reports.PeriodStats(c.Request.Context(), c.DefaultQuery("period", "month"))
	if err != nil {
		respondServiceError(c, "period stats", err)
		return
	}

	var buf bytes.Buffer
	if err := dc.Export.PeriodPDF(&buf, stats); err != nil {
		respondServiceError(c, "render report", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s-%s.pdf"`, stats.Period, stats.StartDate))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
