package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/inference"
	"github.com/decoynet/decoynet/internal/logger"
	"github.com/decoynet/decoynet/internal/metrics"
	"github.com/decoynet/decoynet/internal/models"
)

// Prediction escalation threshold.
const PredictionConfidenceThreshold = 75

// How much interaction history is fused into the prediction context.
const fusedHistoryLimit = 10

const systemInstruction = "You are a cybersecurity threat prediction AI. Always respond with valid JSON."

// PredictionService fuses recent interaction history with the latest signal,
// asks the inference collaborator for the next likely attack step, persists
// the answer, and escalates high-confidence predictions into alerts.
type PredictionService struct {
	DB     *gorm.DB
	Hub    *feed.Hub
	Alerts *AlertService
	Client *inference.Client
}

func NewPredictionService(db *gorm.DB, hub *feed.Hub, alerts *AlertService, client *inference.Client) *PredictionService {
	return &PredictionService{DB: db, Hub: hub, Alerts: alerts, Client: client}
}

// inferenceReply is the JSON shape the collaborator must return.
type inferenceReply struct {
	NextStep    string `json:"next_step"`
	Confidence  int    `json:"confidence"`
	Explanation string `json:"explanation"`
	Impact      string `json:"impact"`
	Prevention  string `json:"prevention"`
}

// Fuse runs one prediction round. On any inference failure nothing is
// persisted and the error (an *inference.Error) is returned to the caller.
func (s *PredictionService) Fuse(ctx context.Context, signal map[string]interface{}) (*models.Prediction, error) {
	var recent []models.Interaction
	if err := s.DB.Order("created_at desc").Limit(fusedHistoryLimit).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}

	content, err := s.Client.Complete(ctx, systemInstruction, buildContext(recent, signal))
	if err != nil {
		metrics.IncInferenceFailure()
		return nil, err
	}

	reply, err := parseReply(content)
	if err != nil {
		metrics.IncInferenceFailure()
		return nil, err
	}

	prediction := &models.Prediction{
		Step:        reply.NextStep,
		Confidence:  reply.Confidence,
		Explanation: reply.Explanation,
		Impact:      reply.Impact,
		Prevention:  reply.Prevention,
	}
	if err := s.DB.Create(prediction).Error; err != nil {
		return nil, fmt.Errorf("insert prediction: %w", err)
	}

	metrics.IncPrediction()
	s.Hub.Publish(feed.KindPrediction, feed.Event{Action: "created", Record: prediction})

	s.escalate(prediction)

	return prediction, nil
}

// escalate raises an alert for high-confidence predictions. Best effort,
// same contract as the recorder's alert insert.
func (s *PredictionService) escalate(prediction *models.Prediction) {
	if prediction.Confidence <= PredictionConfidenceThreshold {
		return
	}

	alert := &models.Alert{
		Severity:          BandSeverity(prediction.Confidence),
		Title:             fmt.Sprintf("Predicted Attack: %s", prediction.Step),
		Description:       prediction.Explanation,
		Source:            "AI Prediction Engine",
		RecommendedAction: prediction.Prevention,
	}

	if err := s.Alerts.Create(alert); err != nil {
		logger.WithFields(map[string]interface{}{
			"prediction_id": prediction.ID,
			"confidence":    prediction.Confidence,
		}).WithError(err).Error("Failed to escalate prediction to alert")
	}
}

// List returns predictions newest first.
func (s *PredictionService) List(limit int) ([]models.Prediction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var predictions []models.Prediction
	result := s.DB.Order("created_at desc").Limit(limit).Find(&predictions)
	return predictions, result.Error
}

// buildContext renders the recent history plus the latest fused signal into
// the textual prompt the collaborator analyzes.
func buildContext(recent []models.Interaction, signal map[string]interface{}) string {
	history, _ := json.MarshalIndent(recent, "", "  ")
	fused, _ := json.MarshalIndent(signal, "", "  ")

	var b strings.Builder
	b.WriteString("You are an advanced cybersecurity AI analyzing attack patterns. Based on the following data, predict the next likely attack step.\n\n")
	b.WriteString("Recent Honeypot Events:\n")
	b.Write(history)
	b.WriteString("\n\nCurrent Fused Data:\n")
	b.Write(fused)
	b.WriteString("\n\nAnalyze the attack patterns and predict:\n")
	b.WriteString("1. The most likely next attack step\n")
	b.WriteString("2. Confidence level (0-100)\n")
	b.WriteString("3. Impact assessment\n")
	b.WriteString("4. Recommended prevention action\n\n")
	b.WriteString("Respond in JSON format:\n")
	b.WriteString(`{"next_step": "description of predicted attack step", "confidence": 0, "explanation": "detailed analysis", "impact": "impact assessment", "prevention": "recommended prevention action"}`)
	return b.String()
}

// parseReply strips optional code-fence markup, decodes the JSON reply, and
// validates its shape. An undecodable or shapeless reply is an inference
// failure, not a storage one.
func parseReply(content string) (*inferenceReply, error) {
	cleaned := inference.StripCodeFence(content)

	var reply inferenceReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, &inference.Error{Reason: "malformed prediction payload", Err: err}
	}
	if strings.TrimSpace(reply.NextStep) == "" {
		return nil, &inference.Error{Reason: "prediction payload missing next_step"}
	}

	reply.Confidence = clampConfidence(reply.Confidence)
	return &reply, nil
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
