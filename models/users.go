package models

import "time"

// User is a customer of the ordering app. The dashboard only reads and toggles them.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProfilePic *string    `gorm:"type:varchar(255)" json:"profile_pic"`
	FullName   string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Phone      string     `gorm:"type:varchar(15);uniqueIndex;not null" json:"phone"`
	Email      string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Location   string     `gorm:"type:text;not null" json:"location"`
	Password   string     `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
}

// AdminUser is an operator of the dashboard.
type AdminUser struct {
	ID        uint       `gorm:"column:admin_id;primaryKey" json:"admin_id"`
	Username  string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName  string     `gorm:"type:varchar(100)" json:"full_name"`
	Role      AdminRole  `gorm:"type:varchar(20);default:'admin'" json:"role"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// DisplayName falls back to the username when no full name is set.
func (a AdminUser) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}
