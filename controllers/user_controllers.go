package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

type UserController struct {
	DB   *gorm.DB
	Live services.Broadcaster
}

func NewUserController(db *gorm.DB, live services.Broadcaster) *UserController {
	return &UserController{DB: db, Live: live}
}

type userRow struct {
	models.User
	OrderCount             int64           `json:"order_count"`
	TotalSpent             decimal.Decimal `json:"total_spent"`
	LastOrderDate          *time.Time      `json:"last_order_date"`
	CreatedAtFormatted     string          `json:"created_at_formatted"`
	LastLoginFormatted     string          `json:"last_login_formatted,omitempty"`
	LastOrderDateFormatted string          `json:"last_order_date_formatted,omitempty"`
	PhoneDisplay           string          `json:"phone_display"`
}

// ListUsers -> GET /dashboard/users?page=
func (uc *UserController) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	page, perPage, offset := utils.ParsePageParams(c)

	var total int64
	if err := uc.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		respondServiceError(c, "count users", err)
		return
	}

	var users []models.User
	if err := uc.DB.WithContext(ctx).Order("created_at DESC").Limit(perPage).Offset(offset).Find(&users).Error; err != nil {
		respondServiceError(c, "list users", err)
		return
	}

	rows := make([]userRow, len(users))
	byID := make(map[uint]*userRow, len(users))
	ids := make([]uint, len(users))
	for i, u := range users {
		rows[i] = userRow{
			User:               u,
			TotalSpent:         decimal.Zero,
			CreatedAtFormatted: utils.FormatIST(&users[i].CreatedAt),
			LastLoginFormatted: utils.FormatIST(u.LastLogin),
			PhoneDisplay:       utils.FormatPhone(u.Phone),
		}
		byID[u.ID] = &rows[i]
		ids[i] = u.ID
	}

	if len(ids) > 0 {
		var orders []struct {
			UserID      uint
			TotalAmount decimal.Decimal
			OrderDate   time.Time
		}
		err := uc.DB.WithContext(ctx).Model(&models.Order{}).
			Select("user_id, total_amount, order_date").
			Where("user_id IN ?", ids).Scan(&orders).Error
		if err != nil {
			respondServiceError(c, "user order totals", err)
			return
		}
		for _, o := range orders {
			r := byID[o.UserID]
			if r == nil {
				continue
			}
			r.OrderCount++
			r.TotalSpent = r.TotalSpent.Add(o.TotalAmount)
			if r.LastOrderDate == nil || o.OrderDate.After(*r.LastOrderDate) {
				d := o.OrderDate
				r.LastOrderDate = &d
			}
		}
		for i := range rows {
			rows[i].LastOrderDateFormatted = utils.FormatIST(rows[i].LastOrderDate)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Users", ListResponse{
		Items:      rows,
		Pagination: utils.Paginate(page, perPage, total, c.Request.URL.Path, nil),
	})
}

type cartLine struct {
	models.CartEntry
	ItemName  string          `json:"item_name"`
	ItemPrice decimal.Decimal `json:"item_price"`
	ItemPhoto *string         `json:"item_photo,omitempty"`
}

// GetUser -> GET /dashboard/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	db := uc.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, "user detail", services.ErrUserNotFound)
			return
		}
		respondServiceError(c, "user detail", err)
		return
	}

	var orders []models.Order
	if err := db.Where("user_id = ?", id).Order("order_date DESC").Limit(10).Find(&orders).Error; err != nil {
		respondServiceError(c, "user orders", err)
		return
	}
	orderRows := make([]gin.H, 0, len(orders))
	for i := range orders {
		orderRows = append(orderRows, gin.H{
			"order":                orders[i],
			"order_number":         orders[i].Number(),
			"order_date_formatted": utils.FormatIST(&orders[i].OrderDate),
			"total_formatted":      utils.FormatINR(orders[i].TotalAmount),
		})
	}

	var addresses []models.Address
	if err := db.Where("user_id = ?", id).Order("is_default DESC, created_at DESC").Find(&addresses).Error; err != nil {
		respondServiceError(c, "user addresses", err)
		return
	}

	var entries []models.CartEntry
	if err := db.Where("user_id = ?", id).Find(&entries).Error; err != nil {
		respondServiceError(c, "user cart", err)
		return
	}
	cart := make([]cartLine, 0, len(entries))
	for _, e := range entries {
		line := cartLine{CartEntry: e, ItemName: "Unknown Item", ItemPrice: decimal.Zero}
		item := models.NewOrderable(e.ItemType)
		if err := db.First(item, e.ItemID).Error; err == nil {
			entry := item.Entry()
			line.ItemName, line.ItemPrice, line.ItemPhoto = entry.Name, entry.FinalPrice, entry.Photo
		}
		cart = append(cart, line)
	}

	utils.RespondJSON(c, http.StatusOK, "User "+user.FullName, gin.H{
		"user":                 user,
		"created_at_formatted": utils.FormatIST(&user.CreatedAt),
		"last_login_formatted": utils.FormatIST(user.LastLogin),
		"phone_display":        utils.FormatPhone(user.Phone),
		"orders":               orderRows,
		"addresses":            addresses,
		"cart_items":           cart,
	})
}

// ToggleActive -> POST /dashboard/users/:id/toggle-active
func (uc *UserController) ToggleActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	db := uc.DB.WithContext(c.Request.Context())

	var user models.User
	if err := db.Select("id", "is_active").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = services.ErrUserNotFound
		}
		respondServiceError(c, "toggle user", err)
		return
	}

	next := !user.IsActive
	if err := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", next).Error; err != nil {
		respondServiceError(c, "toggle user", err)
		return
	}

	action := "deactivated"
	if next {
		action = "activated"
	}
	utils.InfoLogger.Printf("User #%d %s by admin %s", id, action, middlewares.ActorName(c))
	if uc.Live != nil {
		uc.Live.Broadcast(hub.EventUserToggled, gin.H{"user_id": id, "is_active": next})
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("User %s successfully", action), gin.H{"is_active": next})
}
