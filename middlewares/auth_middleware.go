package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

const adminContextKey = "admin"

// AdminIdentity is the signed-in operator for the current request.
type AdminIdentity struct {
	ID        uint
	Username  string
	Role      models.AdminRole
	Token     string
	ExpiresAt time.Time
}

// SessionToken reads the session from the cookie, falling back to a bearer header.
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func identify(token string) (*AdminIdentity, error) {
	if token == "" {
		return nil, errors.New("Please log in to access this page")
	}
	if utils.IsTokenBlacklisted(token) {
		return nil, errors.New("Session has ended, please log in again")
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, errors.New("Invalid or expired session")
	}

	id := &AdminIdentity{
		ID:       claims.AdminID,
		Username: claims.Username,
		Role:     models.AdminRole(claims.Role),
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func setIdentity(c *gin.Context, id *AdminIdentity) {
	c.Set(adminContextKey, id)
	c.Set("admin_id", id.ID)
	c.Set("username", id.Username)
	c.Set("role", string(id.Role))
}

// AdminSession rejects requests without a valid admin session.
func AdminSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identify(SessionToken(c, cookieName))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// CurrentAdmin returns the identity set by AdminSession.
func CurrentAdmin(c *gin.Context) (*AdminIdentity, bool) {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*AdminIdentity)
	return id, ok
}

// ActorName is the username to attribute an action to in logs.
func ActorName(c *gin.Context) string {
	if id, ok := CurrentAdmin(c); ok {
		return id.Username
	}
	return "unknown"
}
