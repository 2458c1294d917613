package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/platform/apierr"
	"github.com/yungbote/tidyhome-backend/internal/platform/logger"
	"github.com/yungbote/tidyhome-backend/internal/realtime"
)

type EventHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewEventHandler(log *logger.Logger, hub *realtime.Hub) *EventHandler {
	return &EventHandler{log: log.With("handler", "EventHandler"), hub: hub}
}

// GET /api/events?channel=jobs,subscriptions
func (h *EventHandler) Stream(c *gin.Context) {
	channels := []string{realtime.ChannelAll}
	if raw := strings.TrimSpace(c.Query("channel")); raw != "" {
		channels = channels[:0]
		for _, ch := range strings.Split(raw, ",") {
			ch = strings.TrimSpace(ch)
			if !realtime.IsKnownChannel(ch) {
				response.RespondAPIError(c, apierr.BadRequest("validation", fmt.Errorf("unknown channel %q", ch)))
				return
			}
			channels = append(channels, ch)
		}
	}

	client := h.hub.NewClient()
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("event stream open", "client_id", client.ID, "channels", channels)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("event stream closed", "client_id", client.ID)
}
