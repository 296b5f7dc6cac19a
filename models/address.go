package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	ID             uint                `gorm:"column:address_id;primaryKey" json:"address_id"`
	UserID         *uint               `gorm:"index" json:"user_id"`
	User           *User               `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FullName       string              `gorm:"type:varchar(100);not null" json:"full_name"`
	Phone          string              `gorm:"type:varchar(15);not null" json:"phone"`
	AddressLine1   string              `gorm:"column:address_line1;type:text;not null" json:"address_line1"`
	AddressLine2   *string             `gorm:"column:address_line2;type:text" json:"address_line2"`
	Landmark       *string             `gorm:"type:varchar(100)" json:"landmark"`
	City           string              `gorm:"type:varchar(50);not null" json:"city"`
	State          string              `gorm:"type:varchar(50);not null" json:"state"`
	Pincode        string              `gorm:"type:varchar(10);not null" json:"pincode"`
	Latitude       decimal.NullDecimal `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude      decimal.NullDecimal `gorm:"type:decimal(11,8)" json:"longitude"`
	GoogleMapsLink *string             `gorm:"type:text" json:"google_maps_link"`
	IsDefault      bool                `gorm:"default:false" json:"is_default"`
	CreatedAt      time.Time           `json:"created_at"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (a Address) HasCoordinates() bool {
	return a.Latitude.Valid && a.Longitude.Valid
}

type Review struct {
	ID         uint      `gorm:"column:review_id;primaryKey" json:"review_id"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OrderID    *uint     `gorm:"index" json:"order_id"`
	Order      *Order    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ItemType   ItemType  `gorm:"type:varchar(10);check:chk_reviews_item_type,item_type IN ('service','menu')" json:"item_type"`
	ItemID     uint      `gorm:"not null" json:"item_id"`
	Rating     int       `gorm:"check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	IsApproved bool      `gorm:"default:false" json:"is_approved"`
}
