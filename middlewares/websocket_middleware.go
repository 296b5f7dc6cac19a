package middlewares

import (
	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware authenticates an upgrade request. Browsers cannot
// set headers on a websocket handshake, so a token query parameter is also
// accepted besides the session cookie.
func WebSocketAuthMiddleware(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = SessionToken(c, cookieName)
		}

		id, err := identify(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}
