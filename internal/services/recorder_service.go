package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/classifier"
	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/logger"
	"github.com/decoynet/decoynet/internal/metrics"
	"github.com/decoynet/decoynet/internal/models"
)

// Alert escalation thresholds shared by the recorder and tests.
const (
	AlertScoreThreshold = 80
	// db-kind attacks at or above this score get the stronger containment action.
	DBContainmentScore = 90
)

// RecorderService classifies an inbound decoy interaction, persists it, and
// escalates high-scoring hits into alerts. The interaction insert is fatal
// on failure; the alert insert is best effort.
type RecorderService struct {
	DB     *gorm.DB
	Hub    *feed.Hub
	Alerts *AlertService
}

func NewRecorderService(db *gorm.DB, hub *feed.Hub, alerts *AlertService) *RecorderService {
	return &RecorderService{DB: db, Hub: hub, Alerts: alerts}
}

// Record runs classify -> insert -> escalate for one decoy hit and returns
// the persisted interaction.
func (s *RecorderService) Record(in classifier.Input) (*models.Interaction, error) {
	result := classifier.Classify(in)

	interaction := &models.Interaction{
		IPAddress:   in.IPAddress,
		Endpoint:    in.Path,
		Method:      in.Method,
		Headers:     models.JSONMap(in.Headers),
		Body:        models.JSONMap(in.Body),
		Pattern:     result.Pattern,
		ThreatScore: result.Score,
	}

	if err := s.DB.Create(interaction).Error; err != nil {
		return nil, fmt.Errorf("insert interaction: %w", err)
	}

	metrics.IncInteraction(string(in.Kind))
	s.Hub.Publish(feed.KindInteraction, feed.Event{Action: "created", Record: interaction})

	s.escalate(in.Kind, interaction)

	return interaction, nil
}

// escalate creates an alert when the score crosses the threshold. An alert
// insert failure must never fail the interaction that triggered it.
func (s *RecorderService) escalate(kind classifier.Kind, interaction *models.Interaction) {
	if interaction.ThreatScore <= AlertScoreThreshold {
		return
	}

	action := "Block IP and monitor for related activity"
	source := "Honeypot System"
	description := fmt.Sprintf("Detected %s from IP %s", interaction.Pattern, interaction.IPAddress)

	if kind == classifier.KindDB && interaction.ThreatScore >= DBContainmentScore {
		action = "IMMEDIATE: Block IP, isolate database endpoint, investigate breach scope"
		source = "Honeypot Database"
	}

	alert := &models.Alert{
		Severity:          BandSeverity(interaction.ThreatScore),
		Title:             fmt.Sprintf("Honeypot Alert: %s", interaction.Pattern),
		Description:       description,
		Source:            source,
		IPAddress:         interaction.IPAddress,
		RecommendedAction: action,
	}

	if err := s.Alerts.Create(alert); err != nil {
		logger.WithFields(map[string]interface{}{
			"interaction_id": interaction.ID,
			"pattern":        interaction.Pattern,
		}).WithError(err).Error("Failed to escalate interaction to alert")
	}
}

// Recent returns the most recent interactions, newest first.
func (s *RecorderService) Recent(limit int) ([]models.Interaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var interactions []models.Interaction
	result := s.DB.Order("created_at desc").Limit(limit).Find(&interactions)
	return interactions, result.Error
}
