package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Insight is one AI-generated clinical insight for a patient.
type Insight struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PatientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_insight_patient_type" json:"patient_id"`
	VisitID   *uuid.UUID `gorm:"type:uuid;index" json:"visit_id,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`

	InsightType string `gorm:"column:insight_type;not null;index:idx_insight_patient_type" json:"insight_type"`
	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description" json:"description"`

	// 0-1 by convention, not clamped.
	RiskLevel       string  `gorm:"column:risk_level;not null;default:low;index:idx_insight_risk_status" json:"risk_level"`
	PriorityScore   float64 `gorm:"column:priority_score;not null;default:0" json:"priority_score"`
	ConfidenceScore float64 `gorm:"column:confidence_score;not null;default:0" json:"confidence_score"`

	ModelUsed    string `gorm:"column:model_used" json:"model_used"`
	ModelVersion string `gorm:"column:model_version" json:"model_version"`

	DataSources datatypes.JSON `gorm:"type:jsonb;column:data_sources" json:"data_sources"`
	Evidence    datatypes.JSON `gorm:"type:jsonb;column:evidence" json:"evidence"`

	IsActionable       bool           `gorm:"column:is_actionable;not null;default:true" json:"is_actionable"`
	RecommendedActions datatypes.JSON `gorm:"type:jsonb;column:recommended_actions" json:"recommended_actions"`
	UrgencyLevel       string         `gorm:"column:urgency_level;not null;default:routine" json:"urgency_level"`

	Status      string     `gorm:"column:status;not null;default:new;index:idx_insight_risk_status" json:"status"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid;column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes string     `gorm:"column:review_notes" json:"review_notes"`

	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (Insight) TableName() string {
	return "ai_insight"
}

func (i *Insight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsCritical reports whether the insight needs attention regardless of review
// state: critical risk or immediate urgency.
func (i *Insight) IsCritical() bool {
	return i.RiskLevel == RiskLevelCritical || i.UrgencyLevel == UrgencyImmediate
}

func (i *Insight) DaysSinceCreated() int {
	return int(time.Since(i.CreatedAt).Hours() / 24)
}
