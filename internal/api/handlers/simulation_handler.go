package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/api/middleware"
	"github.com/decoynet/decoynet/internal/services"
)

type SimulationHandler struct {
	service *services.SimulationService
}

func NewSimulationHandler(service *services.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

type startSimulationRequest struct {
	ScenarioName string `json:"scenarioName"`
}

// Start runs a scenario to completion and returns the terminal record.
// There is no stop or cancel; a caller that goes away just stops waiting.
func (h *SimulationHandler) Start(c *gin.Context) {
	var req startSimulationRequest
	_ = c.ShouldBindJSON(&req)

	sim, err := h.service.Start(req.ScenarioName)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("Simulation run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run simulation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "simulation": sim})
}

func (h *SimulationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	sims, err := h.service.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list simulations"})
		return
	}
	c.JSON(http.StatusOK, sims)
}

func (h *SimulationHandler) Get(c *gin.Context) {
	sim, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "simulation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load simulation"})
		return
	}
	c.JSON(http.StatusOK, sim)
}
