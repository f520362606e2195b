package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity is a single logged workout. ExpGained is computed once when the
// activity is created or edited and stored, never recomputed on read.
type Activity struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
	Date           time.Time      `json:"date" gorm:"not null"`
	ExerciseType   string         `json:"exercise_type" gorm:"not null;type:varchar(50)"`
	Duration       int            `json:"duration" gorm:"not null"` // minutes
	Intensity      string         `json:"intensity" gorm:"not null;type:varchar(10)"`
	ExpGained      float64        `json:"exp_gained" gorm:"not null;default:0"`
	HasEvidence    bool           `json:"has_evidence" gorm:"default:false"`
	EvidenceURL    string         `json:"evidence_url"`
	WeightRecorded *float64       `json:"weight_recorded"`
}
