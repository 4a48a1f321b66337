package handler

import (
	"log"
	"net/http"

	"employee-management/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventsHandler streams employee audit events to connected clients, e.g.
// admin dashboards showing live registry activity.
type EventsHandler struct {
	bus      *events.RedisBus
	upgrader websocket.Upgrader
}

func NewEventsHandler(bus *events.RedisBus) *EventsHandler {
	return &EventsHandler{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the API layer
			},
		},
	}
}

func (h *EventsHandler) HandleWebSocket(c *gin.Context) {
	if h.bus == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream is not available"})
		return
	}

	pubsub := h.bus.Subscribe(c.Request.Context())
	if pubsub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream is not available"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		pubsub.Close()
		log.Printf("failed to upgrade websocket: %v", err)
		return
	}

	defer func() {
		pubsub.Close()
		conn.Close()
	}()

	// Drain reads so client-initiated close frames are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
