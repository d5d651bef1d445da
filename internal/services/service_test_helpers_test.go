package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	// One pooled connection keeps every query on the same in-memory schema
	// and serializes concurrent writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Interaction{},
		&models.Alert{},
		&models.Prediction{},
		&models.Simulation{},
		&models.NotificationProvider{},
	))
	return db
}

func setupRecorder(t *testing.T) (*gorm.DB, *feed.Hub, *RecorderService) {
	t.Helper()
	db := setupServiceTestDB(t)
	hub := feed.NewHub()
	alerts := NewAlertService(db, hub)
	recorder := NewRecorderService(db, hub, alerts)
	return db, hub, recorder
}

func countAlerts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Alert{}).Count(&count).Error)
	return count
}
