package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/api/handlers"
	"github.com/decoynet/decoynet/internal/api/middleware"
	"github.com/decoynet/decoynet/internal/config"
	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/inference"
	"github.com/decoynet/decoynet/internal/metrics"
	"github.com/decoynet/decoynet/internal/models"
	"github.com/decoynet/decoynet/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) (*services.SimulationService, error) {
	if err := db.AutoMigrate(
		&models.Interaction{},
		&models.Alert{},
		&models.Prediction{},
		&models.Simulation{},
		&models.NotificationProvider{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	router.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(cfg.Environment == "development"))

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	hub := feed.NewHub()

	alertService := services.NewAlertService(db, hub)
	recorderService := services.NewRecorderService(db, hub, alertService)
	inferenceClient := inference.NewClient(cfg.InferenceURL, cfg.InferenceAPIKey, cfg.InferenceModel, cfg.InferenceTimeout)
	predictionService := services.NewPredictionService(db, hub, alertService, inferenceClient)
	simulationService := services.NewSimulationService(db, hub, recorderService, cfg.SimulationStepDelay)
	notificationService := services.NewNotificationService(db)

	// Decoy endpoints sit outside the versioned API on purpose: they have to
	// look like an ordinary unprotected application surface.
	honeypotHandler := handlers.NewHoneypotHandler(recorderService, predictionService)
	honeypotHandler.RegisterRoutes(router)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	interactionHandler := handlers.NewInteractionHandler(recorderService)
	api.GET("/interactions", interactionHandler.List)

	alertHandler := handlers.NewAlertHandler(alertService)
	api.GET("/alerts", alertHandler.List)
	api.PATCH("/alerts/:id/status", alertHandler.UpdateStatus)

	predictionHandler := handlers.NewPredictionHandler(predictionService)
	api.GET("/predictions", predictionHandler.List)
	api.POST("/predict", predictionHandler.Predict)

	simulationHandler := handlers.NewSimulationHandler(simulationService)
	api.POST("/simulations", simulationHandler.Start)
	api.GET("/simulations", simulationHandler.List)
	api.GET("/simulations/:id", simulationHandler.Get)

	feedHandler := handlers.NewFeedHandler(hub)
	api.GET("/feed/:kind", feedHandler.Stream)

	notificationProviderHandler := handlers.NewNotificationProviderHandler(notificationService)
	api.GET("/notifications/providers", notificationProviderHandler.List)
	api.POST("/notifications/providers", notificationProviderHandler.Create)
	api.PUT("/notifications/providers/:id", notificationProviderHandler.Update)
	api.DELETE("/notifications/providers/:id", notificationProviderHandler.Delete)
	api.POST("/notifications/providers/test", notificationProviderHandler.Test)

	return simulationService, nil
}
