package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"deskhive/config"
	"deskhive/services/realtime"
	"deskhive/utils"
)

var Hub *realtime.Hub

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client connects cross-origin from the frontend host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and attaches the client to the
// availability hub. Authentication uses a token query param since browser
// websockets cannot set an Authorization header.
func ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"code": "UNAUTHORIZED", "message": "token query param is required"},
		})
		return
	}
	userID, err := utils.ExtractIDFromToken(token)
	if err != nil || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"code": "UNAUTHORIZED", "message": "invalid token"},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	heartbeat := time.Duration(config.AppConfig.WSHeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	// Allow two missed heartbeats before the read deadline trips.
	pongWait := 2 * heartbeat

	client := realtime.NewClient(Hub, conn, userID)
	Hub.Register(client)

	go client.WritePump(heartbeat)
	go client.ReadPump(pongWait)
}
