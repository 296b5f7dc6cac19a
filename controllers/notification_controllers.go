package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

const notificationLimit = 50

type NotificationController struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db, now: time.Now}
}

type notificationRow struct {
	models.Notification
	UserName           string `json:"user_name"`
	TypeLabel          string `json:"type_label"`
	CreatedAtFormatted string `json:"created_at_formatted"`
	ReadAtFormatted    string `json:"read_at_formatted,omitempty"`
	TimeAgo            string `json:"time_ago"`
}

// ListNotifications -> GET /dashboard/notifications
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	var rows []notificationRow
	err := nc.DB.WithContext(c.Request.Context()).Table("notifications AS n").
		Select("n.*, u.full_name AS user_name").
		Joins("LEFT JOIN users u ON n.user_id = u.id").
		Order("n.created_at DESC").
		Limit(notificationLimit).
		Scan(&rows).Error
	if err != nil {
		respondServiceError(c, "list notifications", err)
		return
	}

	now := nc.now()
	unread := 0
	for i := range rows {
		n := &rows[i]
		n.TypeLabel = n.Type.Label()
		n.CreatedAtFormatted = utils.FormatIST(&n.CreatedAt)
		n.ReadAtFormatted = utils.FormatIST(n.ReadAt)
		n.TimeAgo = utils.TimeAgo(n.CreatedAt, now)
		if !n.IsRead {
			unread++
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"items":  rows,
		"unread": unread,
	})
}
