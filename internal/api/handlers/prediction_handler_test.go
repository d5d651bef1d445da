package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/inference"
	"github.com/decoynet/decoynet/internal/models"
	"github.com/decoynet/decoynet/internal/services"
)

func setupPredictionRouter(t *testing.T, upstream http.HandlerFunc) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupHandlerDB(t)
	hub := feed.NewHub()
	alerts := services.NewAlertService(db, hub)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client := inference.NewClient(server.URL, "", "m", 5*time.Second)
	svc := services.NewPredictionService(db, hub, alerts, client)

	router := gin.New()
	handler := NewPredictionHandler(svc)
	router.POST("/api/v1/predict", handler.Predict)
	router.GET("/api/v1/predictions", handler.List)
	return router, db
}

func TestPredictEndpointSuccess(t *testing.T) {
	router, db := setupPredictionRouter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"next_step\":\"port scan\",\"confidence\":40,\"explanation\":\"e\",\"impact\":\"i\",\"prevention\":\"p\"}"}}]}`)
	})

	w := postJSON(router, "/api/v1/predict", map[string]interface{}{"fusedData": map[string]string{"pattern": "Unknown"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "port scan")

	var count int64
	db.Model(&models.Prediction{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPredictEndpointUpstreamFailureIs502(t *testing.T) {
	router, db := setupPredictionRouter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	w := postJSON(router, "/api/v1/predict", map[string]interface{}{})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var count int64
	db.Model(&models.Prediction{}).Count(&count)
	assert.Equal(t, int64(0), count, "failed inference persists nothing")
}

func TestPredictionsListEndpoint(t *testing.T) {
	router, db := setupPredictionRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, db.Create(&models.Prediction{Step: "s", Confidence: 10}).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"confidence":10`)
}
