package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prediction is a forecast of the next likely attack step, produced by
// fusing recent interactions through the inference collaborator.
// Immutable once created.
type Prediction struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Step        string    `gorm:"type:text" json:"step"`
	Confidence  int       `json:"confidence"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	Impact      string    `gorm:"type:text" json:"impact"`
	Prevention  string    `gorm:"type:text" json:"prevention"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Confidence < 0 {
		p.Confidence = 0
	}
	if p.Confidence > 100 {
		p.Confidence = 100
	}
	return
}
