package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
	"github.com/bitemebuddy/admin-dashboard/validators"
)

const minProfilePasswordLen = 6

type AdminService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db, now: time.Now}
}

// Authenticate checks the credentials and stamps last_login.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, newValidationError("Username and password are required")
	}

	var admin models.AdminUser
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin %s: %w", username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAdminInactive
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&admin).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}
	admin.LastLogin = &now

	utils.InfoLogger.Printf("Admin '%s' logged in", admin.Username)
	return &admin, nil
}

func (s *AdminService) Get(ctx context.Context, id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := s.db.WithContext(ctx).First(&admin, "admin_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load admin %d: %w", id, err)
	}
	return &admin, nil
}

type ProfileInput struct {
	FullName        string `form:"full_name" json:"full_name"`
	Email           string `form:"email" json:"email"`
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

func (in ProfileInput) validate() error {
	checks := []validators.Result{
		validators.R(in.FullName != "", "Full name is required"),
		validators.R(validators.Email(in.Email)),
	}
	if in.NewPassword != "" {
		checks = append(checks, in.passwordCheck())
	}
	if msgs := validators.Collect(checks...); len(msgs) > 0 {
		return newValidationError(msgs...)
	}
	return nil
}

// passwordCheck reports the first problem with a requested password change.
func (in ProfileInput) passwordCheck() validators.Result {
	switch {
	case in.CurrentPassword == "":
		return validators.R(false, "Current password is required to set new password")
	case in.NewPassword != in.ConfirmPassword:
		return validators.R(false, "New passwords do not match")
	case len(in.NewPassword) < minProfilePasswordLen:
		return validators.R(false, fmt.Sprintf("New password must be at least %d characters", minProfilePasswordLen))
	}
	return validators.R(true, "New password accepted")
}

// UpdateProfile changes name and email, and the password when a new one is given.
func (s *AdminService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.AdminUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.CurrentPassword = strings.TrimSpace(in.CurrentPassword)
	in.NewPassword = strings.TrimSpace(in.NewPassword)
	in.ConfirmPassword = strings.TrimSpace(in.ConfirmPassword)
	if err := in.validate(); err != nil {
		return nil, err
	}

	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"full_name": in.FullName, "email": in.Email}
	if in.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(in.CurrentPassword)) != nil {
			return nil, newValidationError("Current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	var taken int64
	err = s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("email = ? AND admin_id <> ?", in.Email, id).Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("check admin email: %w", err)
	}
	if taken > 0 {
		return nil, newValidationError("Email already registered to another admin")
	}

	if err := s.db.WithContext(ctx).Model(admin).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update admin %d: %w", id, err)
	}

	utils.InfoLogger.Printf("Admin %s updated their profile", admin.Username)
	return s.Get(ctx, id)
}
