package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/decoynet/internal/models"
	"github.com/decoynet/decoynet/internal/services"
)

type AlertHandler struct {
	service *services.AlertService
}

func NewAlertHandler(service *services.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

func (h *AlertHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	status := models.AlertStatus(c.Query("status"))

	alerts, err := h.service.List(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

type updateAlertStatusRequest struct {
	Status models.AlertStatus `json:"status" binding:"required"`
}

func (h *AlertHandler) UpdateStatus(c *gin.Context) {
	var req updateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	alert, err := h.service.UpdateStatus(c.Param("id"), req.Status)
	switch {
	case errors.Is(err, services.ErrInvalidAlertStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
	case errors.Is(err, services.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert"})
	default:
		c.JSON(http.StatusOK, alert)
	}
}
