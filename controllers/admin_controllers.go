package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/services"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// AdminController handles sign-in, sign-out and the operator's own profile.
type AdminController struct {
	DB           *gorm.DB
	Admins       *services.AdminService
	CookieName   string
	CookieSecure bool
}

func NewAdminController(db *gorm.DB, cookieName string, secure bool) *AdminController {
	return &AdminController{
		DB:           db,
		Admins:       services.NewAdminService(db),
		CookieName:   cookieName,
		CookieSecure: secure,
	}
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (ac *AdminController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	admin, err := ac.Admins.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, "login", err)
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username, string(admin.Role))
	if err != nil {
		respondServiceError(c, "issue session", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.CookieName, token, int(utils.SessionLifetime().Seconds()), "/", "", ac.CookieSecure, true)

	utils.RespondJSON(c, http.StatusOK, "Login successful!", gin.H{
		"token":      token,
		"expires_in": int(utils.SessionLifetime().Seconds()),
		"admin": gin.H{
			"admin_id":  admin.ID,
			"username":  admin.Username,
			"full_name": admin.DisplayName(),
			"email":     admin.Email,
			"role":      admin.Role,
		},
	})
}

// Logout revokes the presented session, if any, and clears the cookie.
func (ac *AdminController) Logout(c *gin.Context) {
	if token := middlewares.SessionToken(c, ac.CookieName); token != "" {
		if claims, err := utils.ParseToken(token); err == nil {
			until := time.Now().Add(utils.SessionLifetime())
			if claims.ExpiresAt != nil {
				until = claims.ExpiresAt.Time
			}
			utils.BlacklistToken(token, until)
			utils.InfoLogger.Printf("Admin '%s' logged out", claims.Username)
		}
	}
	c.SetCookie(ac.CookieName, "", -1, "/", "", ac.CookieSecure, true)
	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}

func (ac *AdminController) GetProfile(c *gin.Context) {
	id, _ := middlewares.CurrentAdmin(c)
	admin, err := ac.Admins.Get(c.Request.Context(), id.ID)
	if err != nil {
		respondServiceError(c, "load profile", err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile", gin.H{
		"admin":                admin,
		"role_label":           admin.Role.Label(),
		"last_login_formatted": utils.FormatIST(admin.LastLogin),
		"created_at_formatted": utils.FormatIST(&admin.CreatedAt),
	})
}

func (ac *AdminController) UpdateProfile(c *gin.Context) {
	id, _ := middlewares.CurrentAdmin(c)

	var in services.ProfileInput
	if err := c.ShouldBind(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	admin, err := ac.Admins.UpdateProfile(c.Request.Context(), id.ID, in)
	if err != nil {
		respondServiceError(c, "update profile", err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated successfully!", admin)
}
