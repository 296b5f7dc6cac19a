package models

import "time"

type Notification struct {
	ID        uint             `gorm:"column:notification_id;primaryKey" json:"notification_id"`
	UserID    *uint            `gorm:"index" json:"user_id"`
	User      *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string           `gorm:"type:varchar(100);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"column:notification_type;type:varchar(20)" json:"notification_type"`
	IsRead    bool             `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at"`
}
