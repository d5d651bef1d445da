package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SimulationStatus string

const (
	SimulationStatusPending   SimulationStatus = "pending"
	SimulationStatusRunning   SimulationStatus = "running"
	SimulationStatusCompleted SimulationStatus = "completed"
	SimulationStatusFailed    SimulationStatus = "failed"
)

// Simulation is one scripted run of synthetic interactions through the
// classify/record pipeline. Mutated in place while the run progresses and
// frozen once it reaches a terminal status.
type Simulation struct {
	ID         string           `gorm:"primaryKey" json:"id"`
	Name       string           `json:"name"`
	AttackType string           `json:"attack_type"`
	Status     SimulationStatus `json:"status"`
	Result     string           `json:"result"`
	// Duration of the run in whole seconds.
	Duration  int        `json:"duration"`
	Logs      StringList `gorm:"type:text" json:"logs"`
	Blocked   bool       `json:"blocked"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (s *Simulation) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = SimulationStatusPending
	}
	return
}

// Terminal reports whether the simulation has reached a final status.
func (s *Simulation) Terminal() bool {
	return s.Status == SimulationStatusCompleted || s.Status == SimulationStatusFailed
}
