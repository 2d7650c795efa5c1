package handler

import (
	"net/http"

	"togedr/backend/internal/chathub"
	"togedr/backend/internal/config"
	"togedr/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the caller and upgrades the connection. The
// token may arrive as a Bearer header or, for browser WebSocket clients that
// cannot set headers, as a query parameter.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString, ok := bearerToken(c)
	if !ok {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	userID, err := ValidateJWT(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		Hub:    h.Hub,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan models.ChatMessage, config.ClientSendBuffer),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
