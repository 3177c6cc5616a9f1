package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PatientTrend is the single row per (patient, metric, category). Re-analysis
// upserts the row instead of appending a new one.
type PatientTrend struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trend_patient_metric" json:"patient_id"`

	MetricName     string `gorm:"column:metric_name;not null;uniqueIndex:idx_trend_patient_metric" json:"metric_name"`
	MetricCategory string `gorm:"column:metric_category;not null;uniqueIndex:idx_trend_patient_metric" json:"metric_category"`

	TrendDirection          string   `gorm:"column:trend_direction;not null" json:"trend_direction"`
	TrendStrength           float64  `gorm:"column:trend_strength;not null" json:"trend_strength"`
	StatisticalSignificance *float64 `gorm:"column:statistical_significance" json:"statistical_significance,omitempty"`

	DataPoints         datatypes.JSON `gorm:"type:jsonb;column:data_points" json:"data_points"`
	AnalysisPeriodDays int            `gorm:"column:analysis_period_days;not null;default:30" json:"analysis_period_days"`

	AIInterpretation     string `gorm:"column:ai_interpretation" json:"ai_interpretation"`
	ClinicalSignificance string `gorm:"column:clinical_significance" json:"clinical_significance"`

	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
	LastAnalyzed time.Time `gorm:"column:last_analyzed" json:"last_analyzed"`
}

func (PatientTrend) TableName() string {
	return "patient_trend"
}

func (t *PatientTrend) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
