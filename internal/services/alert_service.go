package services

import (
	"errors"
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/logger"
	"github.com/decoynet/decoynet/internal/metrics"
	"github.com/decoynet/decoynet/internal/models"
)

var (
	ErrAlertNotFound      = errors.New("alert not found")
	ErrInvalidAlertStatus = errors.New("invalid alert status")
)

type AlertService struct {
	DB  *gorm.DB
	Hub *feed.Hub
}

func NewAlertService(db *gorm.DB, hub *feed.Hub) *AlertService {
	return &AlertService{DB: db, Hub: hub}
}

// BandSeverity maps a score or confidence value to an alert severity using
// the shared escalation bands.
func BandSeverity(value int) models.AlertSeverity {
	if value > 90 {
		return models.AlertSeverityCritical
	}
	return models.AlertSeverityHigh
}

// Create persists the alert, publishes it on the change feed, and pushes it
// to any matching external notification providers.
func (s *AlertService) Create(alert *models.Alert) error {
	if err := s.DB.Create(alert).Error; err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	metrics.IncAlert(string(alert.Severity))
	s.Hub.Publish(feed.KindAlert, feed.Event{Action: "created", Record: alert})
	s.notify(alert)
	return nil
}

// List returns alerts newest first, optionally filtered to one status.
func (s *AlertService) List(status models.AlertStatus, limit int) ([]models.Alert, error) {
	query := s.DB.Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var alerts []models.Alert
	result := query.Find(&alerts)
	return alerts, result.Error
}

// UpdateStatus applies an operator status change (active, investigating,
// resolved) and republishes the alert on the feed.
func (s *AlertService) UpdateStatus(id string, status models.AlertStatus) (*models.Alert, error) {
	if !models.ValidAlertStatus(status) {
		return nil, ErrInvalidAlertStatus
	}

	var alert models.Alert
	if err := s.DB.First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	alert.Status = status
	if err := s.DB.Save(&alert).Error; err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}

	s.Hub.Publish(feed.KindAlert, feed.Event{Action: "updated", Record: &alert})
	return &alert, nil
}

// notify fans the alert out to enabled shoutrrr providers whose severity
// floor it meets. Failures are logged and never surfaced.
func (s *AlertService) notify(alert *models.Alert) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("Failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		if !severityAtLeast(alert.Severity, provider.MinSeverity) {
			continue
		}

		go func(p models.NotificationProvider) {
			msg := fmt.Sprintf("%s\n\n%s\nRecommended action: %s", alert.Title, alert.Description, alert.RecommendedAction)
			if err := shoutrrr.Send(p.URL, msg); err != nil {
				logger.WithFields(map[string]interface{}{"provider": p.Name}).
					WithError(err).Error("Failed to push alert notification")
			}
		}(provider)
	}
}

var severityRank = map[models.AlertSeverity]int{
	models.AlertSeverityLow:      0,
	models.AlertSeverityMedium:   1,
	models.AlertSeverityHigh:     2,
	models.AlertSeverityCritical: 3,
}

func severityAtLeast(severity, floor models.AlertSeverity) bool {
	return severityRank[severity] >= severityRank[floor]
}
