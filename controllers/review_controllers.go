package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

type ReviewController struct {
	DB   *gorm.DB
	Live services.Broadcaster
}

func NewReviewController(db *gorm.DB, live services.Broadcaster) *ReviewController {
	return &ReviewController{DB: db, Live: live}
}

type reviewRow struct {
	models.Review
	UserName           string  `json:"user_name"`
	ItemName           *string `json:"item_name"`
	ItemPhoto          *string `json:"item_photo"`
	Stars              string  `json:"stars"`
	CreatedAtFormatted string  `json:"created_at_formatted"`
	Excerpt            string  `json:"excerpt"`
}

func stars(rating int) string {
	out := make([]rune, 0, 5)
	for i := 1; i <= 5; i++ {
		if i <= rating {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}

// ListReviews -> GET /dashboard/reviews?approved=all|yes|no&page=
func (rc *ReviewController) ListReviews(c *gin.Context) {
	approved := c.DefaultQuery("approved", "all")
	page, perPage, offset := utils.ParsePageParams(c)

	q := rc.DB.WithContext(c.Request.Context()).Table("reviews AS r")
	switch approved {
	case "yes":
		q = q.Where("r.is_approved = ?", true)
	case "no":
		q = q.Where("r.is_approved = ?", false)
	default:
		approved = "all"
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondServiceError(c, "count reviews", err)
		return
	}

	var rows []reviewRow
	err := q.Select(`r.*, u.full_name AS user_name,
			COALESCE(s.name, m.name) AS item_name,
			COALESCE(s.photo, m.photo) AS item_photo`).
		Joins("LEFT JOIN users u ON r.user_id = u.id").
		Joins("LEFT JOIN services s ON r.item_type = ? AND r.item_id = s.id", models.ItemService).
		Joins("LEFT JOIN menu m ON r.item_type = ? AND r.item_id = m.id", models.ItemMenu).
		Order("r.created_at DESC").
		Limit(perPage).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		respondServiceError(c, "list reviews", err)
		return
	}

	for i := range rows {
		r := &rows[i]
		r.Stars = stars(r.Rating)
		r.CreatedAtFormatted = utils.FormatIST(&r.CreatedAt)
		if r.Comment != nil {
			r.Excerpt = utils.Truncate(*r.Comment, 100)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Reviews", gin.H{
		"items":      rows,
		"approved":   approved,
		"pagination": utils.Paginate(page, perPage, total, c.Request.URL.Path, url.Values{"approved": {approved}}),
	})
}

// ToggleApproval -> POST /dashboard/reviews/:id/toggle-approval
func (rc *ReviewController) ToggleApproval(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	db := rc.DB.WithContext(c.Request.Context())

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = services.ErrReviewNotFound
		}
		respondServiceError(c, "toggle review", err)
		return
	}

	next := !review.IsApproved
	if err := db.Model(&models.Review{}).Where("review_id = ?", id).Update("is_approved", next).Error; err != nil {
		respondServiceError(c, "toggle review", err)
		return
	}

	action := "unapproved"
	if next {
		action = "approved"
	}
	utils.InfoLogger.Printf("Review #%d %s by admin %s", id, action, middlewares.ActorName(c))
	if rc.Live != nil {
		rc.Live.Broadcast(hub.EventReviewModerated, gin.H{"review_id": id, "is_approved": next})
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Review %s successfully", action), gin.H{"is_approved": next})
}
