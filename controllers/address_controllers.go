package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

type AddressController struct {
	DB *gorm.DB
}

func NewAddressController(db *gorm.DB) *AddressController {
	return &AddressController{DB: db}
}

type addressRow struct {
	models.Address
	UserName           string `json:"user_name"`
	UserEmail          string `json:"user_email"`
	CreatedAtFormatted string `json:"created_at_formatted"`
}

// ListAddresses -> GET /dashboard/addresses?page=
// Addresses with coordinates but no maps link get one persisted on first view.
func (ac *AddressController) ListAddresses(c *gin.Context) {
	db := ac.DB.WithContext(c.Request.Context())
	page, perPage, offset := utils.ParsePageParams(c)

	var total int64
	if err := db.Model(&models.Address{}).Count(&total).Error; err != nil {
		respondServiceError(c, "count addresses", err)
		return
	}

	var rows []addressRow
	err := db.Table("addresses AS a").
		Select("a.*, u.full_name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN users u ON a.user_id = u.id").
		Order("a.created_at DESC").
		Limit(perPage).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		respondServiceError(c, "list addresses", err)
		return
	}

	for i := range rows {
		a := &rows[i]
		a.CreatedAtFormatted = utils.FormatIST(&a.CreatedAt)
		if a.GoogleMapsLink != nil && *a.GoogleMapsLink != "" {
			continue
		}
		link := utils.MapsLink(a.Latitude, a.Longitude)
		if link == "" {
			continue
		}
		err := db.Model(&models.Address{}).
			Where("address_id = ?", a.ID).
			Update("google_maps_link", link).Error
		if err != nil {
			utils.ErrorLogger.Warnf("persist maps link for address %d: %v", a.ID, err)
		}
		a.GoogleMapsLink = &link
	}

	utils.RespondJSON(c, http.StatusOK, "Addresses", ListResponse{
		Items:      rows,
		Pagination: utils.Paginate(page, perPage, total, c.Request.URL.Path, nil),
	})
}
