package handler

import (
	"net/http"

	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/chathub"
	"civicvoice/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and registers it with the hub.
// The route runs behind RequireAuth, so the identity is already resolved.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	identity := auth.CurrentIdentity(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		UserID: identity.UserID,
		Conn:   conn,
		Hub:    h.Hub,
		Send:   make(chan models.Event, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
