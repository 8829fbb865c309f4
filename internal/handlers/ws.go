package handlers

import (
	"log"
	"net/http"

	"github.com/yktwalker/event-registration-api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      Subscribe to an event's registration updates
// @Description  Pushes new_registrations, deleted_registration and arrival_update messages; inbound frames are ignored
// @Tags         websocket
// @Param        id path int true "Event ID"
// @Router       /ws/events/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(eventID, conn)
	defer h.hub.RemoveConnection(eventID, conn)

	// Inbound frames only keep the connection alive; the read loop exists to
	// notice the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
