package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RiskPrediction is one prediction event. Re-assessment creates a new row.
type RiskPrediction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index:idx_risk_patient_type" json:"patient_id"`

	RiskType string `gorm:"column:risk_type;not null;index:idx_risk_patient_type" json:"risk_type"`

	RiskScore          float64        `gorm:"column:risk_score;not null" json:"risk_score"`
	RiskCategory       string         `gorm:"column:risk_category;not null;index" json:"risk_category"`
	ConfidenceInterval datatypes.JSON `gorm:"type:jsonb;column:confidence_interval" json:"confidence_interval"`

	ModelName         string         `gorm:"column:model_name" json:"model_name"`
	ModelAccuracy     *float64       `gorm:"column:model_accuracy" json:"model_accuracy,omitempty"`
	FeatureImportance datatypes.JSON `gorm:"type:jsonb;column:feature_importance" json:"feature_importance"`

	RiskFactors       datatypes.JSON `gorm:"type:jsonb;column:risk_factors" json:"risk_factors"`
	ProtectiveFactors datatypes.JSON `gorm:"type:jsonb;column:protective_factors" json:"protective_factors"`

	PreventionStrategies      datatypes.JSON `gorm:"type:jsonb;column:prevention_strategies" json:"prevention_strategies"`
	MonitoringRecommendations datatypes.JSON `gorm:"type:jsonb;column:monitoring_recommendations" json:"monitoring_recommendations"`

	IsValidated     bool       `gorm:"column:is_validated;not null;default:false" json:"is_validated"`
	ValidatedBy     *uuid.UUID `gorm:"type:uuid;column:validated_by" json:"validated_by,omitempty"`
	ValidationNotes string     `gorm:"column:validation_notes" json:"validation_notes"`

	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (RiskPrediction) TableName() string {
	return "risk_prediction"
}

func (p *RiskPrediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsHighRisk reports whether the prediction crosses the action threshold:
// score at or above 0.7, or a high/critical category from the model.
func (p *RiskPrediction) IsHighRisk() bool {
	return p.RiskScore >= 0.7 || p.RiskCategory == RiskLevelHigh || p.RiskCategory == RiskLevelCritical
}
