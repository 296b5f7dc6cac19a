package database

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@bitebuddydashboard.com"
)

// Migrate creates or updates every table and makes sure a default admin exists.
func Migrate(db *gorm.DB, defaultAdminPassword string) error {
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	return EnsureDefaultAdmin(db, defaultAdminPassword)
}

// EnsureDefaultAdmin inserts the superadmin account when no "admin" user exists.
func EnsureDefaultAdmin(db *gorm.DB, password string) error {
	var existing models.AdminUser
	err := db.Where("username = ?", DefaultAdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	admin := models.AdminUser{
		Username: DefaultAdminUsername,
		Email:    DefaultAdminEmail,
		Password: string(hash),
		FullName: "Administrator",
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}
	utils.InfoLogger.Println("Default admin user created")
	return nil
}
