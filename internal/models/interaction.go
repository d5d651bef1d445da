package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction is one classified hit against a decoy endpoint.
// Immutable once recorded.
type Interaction struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	IPAddress   string    `json:"ip_address"`
	Endpoint    string    `json:"endpoint"`
	Method      string    `json:"method"`
	Headers     JSONMap   `gorm:"type:text" json:"headers"`
	Body        JSONMap   `gorm:"type:text" json:"body"`
	Pattern     string    `json:"pattern"`
	ThreatScore int       `json:"threat_score"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.ThreatScore < 0 {
		i.ThreatScore = 0
	}
	if i.ThreatScore > 100 {
		i.ThreatScore = 100
	}
	return
}
