package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/decoynet/internal/feed"
)

// FeedHandler streams change-feed events to observers over SSE. A stream
// only carries events published after the subscription was opened.
type FeedHandler struct {
	hub *feed.Hub
}

func NewFeedHandler(hub *feed.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Stream serves GET /feed/:kind as a server-sent event stream.
func (h *FeedHandler) Stream(c *gin.Context) {
	kind := feed.Kind(c.Param("kind"))
	if !feed.ValidKind(kind) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown feed kind"})
		return
	}

	sub := h.hub.Subscribe(kind)
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	// Push the headers out now so the client sees the stream open before the
	// first event arrives.
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(event.Action, event)
			return true
		case <-clientGone:
			return false
		}
	})
}
