package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/decoynet/decoynet/internal/api/middleware"
	"github.com/decoynet/decoynet/internal/classifier"
	"github.com/decoynet/decoynet/internal/services"
)

// HoneypotHandler serves the decoy endpoints. Every hit is classified and
// recorded, then answered with a deceptive payload so the attacker keeps
// probing. A recording failure is surfaced as a generic 500 so the decoy
// never leaks what it is.
type HoneypotHandler struct {
	recorder    *services.RecorderService
	predictions *services.PredictionService
}

func NewHoneypotHandler(recorder *services.RecorderService, predictions *services.PredictionService) *HoneypotHandler {
	return &HoneypotHandler{recorder: recorder, predictions: predictions}
}

func (h *HoneypotHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/honeypot/login", h.Login)
	router.POST("/honeypot/db", h.Database)
	router.Any("/honeypot/api/*path", h.API)
}

// Login is the fake credential endpoint. Always answers 401.
func (h *HoneypotHandler) Login(c *gin.Context) {
	in := h.buildInput(c, classifier.KindLogin, "/honeypot/login")

	interaction, err := h.recorder.Record(in)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("Failed to record login interaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.fuseAsync(c, interaction.Pattern, interaction.ThreatScore, in)

	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
}

// Database is the fake SQL endpoint. Always answers with a connection error.
func (h *HoneypotHandler) Database(c *gin.Context) {
	in := h.buildInput(c, classifier.KindDB, "/honeypot/db")

	interaction, err := h.recorder.Record(in)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("Failed to record db interaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.fuseAsync(c, interaction.Pattern, interaction.ThreatScore, in)

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Database connection failed",
		"code":  "ECONNREFUSED",
	})
}

// API is the fake REST surface. Always answers an empty success.
func (h *HoneypotHandler) API(c *gin.Context) {
	in := h.buildInput(c, classifier.KindAPI, "/honeypot/api"+c.Param("path"))

	interaction, err := h.recorder.Record(in)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("Failed to record api interaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.fuseAsync(c, interaction.Pattern, interaction.ThreatScore, in)

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"data":    []interface{}{},
		"message": "No data available",
	})
}

// buildInput snapshots the request into classifier input. A missing or
// unparseable body is treated as empty, never as an error.
func (h *HoneypotHandler) buildInput(c *gin.Context, kind classifier.Kind, path string) classifier.Input {
	body := map[string]interface{}{}
	_ = c.ShouldBindJSON(&body)

	headers := map[string]interface{}{}
	for key, values := range c.Request.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	return classifier.Input{
		IPAddress: c.ClientIP(),
		Kind:      kind,
		Method:    c.Request.Method,
		Path:      path,
		Headers:   headers,
		Body:      body,
	}
}

// fuseAsync triggers a prediction round for the freshly classified hit.
// Best effort: failures are logged and never affect the decoy response.
func (h *HoneypotHandler) fuseAsync(c *gin.Context, pattern string, score int, in classifier.Input) {
	if h.predictions == nil {
		return
	}

	entry := middleware.GetRequestLogger(c)
	signal := map[string]interface{}{
		"event_type":   "honeypot_" + string(in.Kind),
		"ip_address":   in.IPAddress,
		"pattern":      pattern,
		"threat_score": score,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := h.predictions.Fuse(ctx, signal); err != nil {
			entry.WithError(err).Warn("Prediction call failed")
		}
	}()
}
