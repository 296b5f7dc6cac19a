package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/middlewares"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// LiveController upgrades signed-in dashboards to a push-only socket.
type LiveController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewLiveController accepts sockets from the given origins; "*" allows any.
// An empty list only accepts same-origin requests.
func NewLiveController(h *hub.Hub, origins []string) *LiveController {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	lc := &LiveController{Hub: h}
	lc.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowed["*"] || allowed[origin] {
				return true
			}
			return origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
	return lc
}

// Connect -> GET /ws/dashboard
func (lc *LiveController) Connect(c *gin.Context) {
	admin, ok := middlewares.CurrentAdmin(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Warnf("websocket upgrade for %s: %v", admin.Username, err)
		return
	}

	lc.Hub.Register(ws, admin.Username)
	utils.InfoLogger.Printf("Live dashboard connected: %s (%d open)", admin.Username, lc.Hub.Clients())

	// Clients only send pings; reading keeps close frames flowing.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	lc.Hub.Unregister(ws)
}
