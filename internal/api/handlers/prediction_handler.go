package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/decoynet/internal/api/middleware"
	"github.com/decoynet/decoynet/internal/inference"
	"github.com/decoynet/decoynet/internal/services"
)

type PredictionHandler struct {
	service *services.PredictionService
}

func NewPredictionHandler(service *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: service}
}

func (h *PredictionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	predictions, err := h.service.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list predictions"})
		return
	}
	c.JSON(http.StatusOK, predictions)
}

type predictRequest struct {
	FusedData map[string]interface{} `json:"fusedData"`
}

// Predict runs a synchronous fusion round. Inference failures surface as
// 502 so the caller can tell a collaborator outage from a local fault.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req predictRequest
	_ = c.ShouldBindJSON(&req)

	prediction, err := h.service.Fuse(c.Request.Context(), req.FusedData)
	if err != nil {
		var infErr *inference.Error
		if errors.As(err, &infErr) {
			middleware.GetRequestLogger(c).WithError(err).Warn("Inference collaborator failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": infErr.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("Prediction round failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prediction": prediction})
}
