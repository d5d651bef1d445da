package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "low"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityCritical AlertSeverity = "critical"
)

type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "active"
	AlertStatusInvestigating AlertStatus = "investigating"
	AlertStatusResolved      AlertStatus = "resolved"
)

// Alert is an escalated, human-facing notification derived from a
// high-scoring interaction or a high-confidence prediction.
type Alert struct {
	ID                string        `gorm:"primaryKey" json:"id"`
	Severity          AlertSeverity `json:"severity"`
	Title             string        `json:"title"`
	Description       string        `gorm:"type:text" json:"description"`
	Source            string        `json:"source"`
	IPAddress         string        `json:"ip_address"`
	RecommendedAction string        `json:"recommended_action"`
	Status            AlertStatus   `json:"status"`
	CreatedAt         time.Time     `gorm:"index" json:"created_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = AlertStatusActive
	}
	return
}

// ValidAlertStatus reports whether s is one of the accepted status values.
func ValidAlertStatus(s AlertStatus) bool {
	switch s {
	case AlertStatusActive, AlertStatusInvestigating, AlertStatusResolved:
		return true
	}
	return false
}
