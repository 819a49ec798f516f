package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/realtime"
)

// EventsHandler streams task mutation events to connected clients.
type EventsHandler struct {
	hub *realtime.Hub
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream subscribes the client to the broadcast hub and forwards events as
// server-sent events until the client disconnects. The channel is read-only
// fan-out; clients that connect later do not see earlier events.
func (h *EventsHandler) Stream(c *gin.Context) {
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event.Payload)
			return true
		}
	})
}
