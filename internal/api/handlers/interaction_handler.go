package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/decoynet/internal/services"
)

type InteractionHandler struct {
	recorder *services.RecorderService
}

func NewInteractionHandler(recorder *services.RecorderService) *InteractionHandler {
	return &InteractionHandler{recorder: recorder}
}

// List returns recent recorded interactions, newest first.
func (h *InteractionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	interactions, err := h.recorder.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list interactions"})
		return
	}
	c.JSON(http.StatusOK, interactions)
}
