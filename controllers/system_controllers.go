package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitemebuddy/admin-dashboard/database"
	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// SystemController exposes store maintenance and the media library.
type SystemController struct {
	Maintenance   *database.Maintenance
	Media         services.MediaStore
	Service       string
	RetentionDays int
}

func NewSystemController(m *database.Maintenance, media services.MediaStore, service string, retentionDays int) *SystemController {
	if media == nil {
		media = services.NoopMediaStore{}
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &SystemController{Maintenance: m, Media: media, Service: service, RetentionDays: retentionDays}
}

// Health -> GET /health
func (sc *SystemController) Health(c *gin.Context) {
	report := sc.Maintenance.Health(c.Request.Context())
	if report.Status != "healthy" {
		utils.ErrorLogger.Errorf("health check failed: %s", report.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    report.Status,
			"error":     report.Error,
			"timestamp": report.Timestamp,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    report.Status,
		"service":   sc.Service,
		"timestamp": report.Timestamp,
		"timezone":  utils.IST.String(),
	})
}

// SystemHealth -> GET /dashboard/system/health
func (sc *SystemController) SystemHealth(c *gin.Context) {
	ctx := c.Request.Context()
	report := sc.Maintenance.Health(ctx)
	tables, err := sc.Maintenance.TableStats(ctx)
	if err != nil {
		utils.ErrorLogger.Warnf("table stats: %v", err)
	}

	code := http.StatusOK
	if report.Status != "healthy" {
		code = http.StatusInternalServerError
	}
	utils.RespondJSON(c, code, "System health", gin.H{
		"database":             report,
		"tables":               tables,
		"last_order_formatted": utils.FormatIST(report.LastOrder),
	})
}

// Optimize -> POST /dashboard/system/optimize
func (sc *SystemController) Optimize(c *gin.Context) {
	started := time.Now()
	if err := sc.Maintenance.Optimize(c.Request.Context()); err != nil {
		respondServiceError(c, "optimize database", err)
		return
	}
	utils.InfoLogger.Printf("Database optimized by admin %s", middlewares.ActorName(c))
	utils.RespondJSON(c, http.StatusOK, "Database optimization completed", gin.H{
		"duration_ms": time.Since(started).Milliseconds(),
	})
}

// Cleanup -> POST /dashboard/system/cleanup?days=
func (sc *SystemController) Cleanup(c *gin.Context) {
	days := sc.RetentionDays
	if raw := c.DefaultPostForm("days", c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.RespondValidation(c, http.StatusBadRequest, []string{"Days must be a positive whole number"})
			return
		}
		days = n
	}

	removed, err := sc.Maintenance.CleanupNotifications(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, "cleanup notifications", err)
		return
	}
	utils.InfoLogger.Printf("Notification cleanup (%d days) by admin %s removed %d", days, middlewares.ActorName(c), removed)
	utils.RespondJSON(c, http.StatusOK, "Cleanup completed", gin.H{
		"removed": removed,
		"days":    days,
	})
}

// Integrity -> GET /dashboard/system/integrity
func (sc *SystemController) Integrity(c *gin.Context) {
	report := sc.Maintenance.CheckIntegrity(c.Request.Context())
	message := "No integrity issues found"
	if report.HasIssues {
		message = "Integrity issues found"
	}
	utils.RespondJSON(c, http.StatusOK, message, report)
}

// ListMedia -> GET /dashboard/media?folder=&max=
func (sc *SystemController) ListMedia(c *gin.Context) {
	folder := c.Query("folder")
	limit, _ := strconv.Atoi(c.DefaultQuery("max", "100"))

	assets, err := sc.Media.List(c.Request.Context(), folder, limit)
	if err != nil {
		respondServiceError(c, "list media", err)
		return
	}

	type assetRow struct {
		services.Asset
		Size string `json:"size"`
	}
	rows := make([]assetRow, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, assetRow{Asset: a, Size: utils.FormatBytes(int64(a.Bytes))})
	}
	utils.RespondJSON(c, http.StatusOK, "Media", gin.H{
		"folder": folder,
		"items":  rows,
	})
}
