package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AIProcessingLog is the append-only audit row for one AI invocation. Rows are
// never updated after creation.
type AIProcessingLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PatientID *uuid.UUID `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`

	ProcessType string `gorm:"column:process_type;not null" json:"process_type"`
	ModelUsed   string `gorm:"column:model_used" json:"model_used"`

	InputDataSize         int     `gorm:"column:input_data_size" json:"input_data_size"`
	ProcessingTimeSeconds float64 `gorm:"column:processing_time_seconds" json:"processing_time_seconds"`

	Success       bool           `gorm:"column:success;not null;default:true" json:"success"`
	ErrorMessage  string         `gorm:"column:error_message" json:"error_message"`
	OutputSummary datatypes.JSON `gorm:"type:jsonb;column:output_summary" json:"output_summary"`

	TokensUsed   *int     `gorm:"column:tokens_used" json:"tokens_used,omitempty"`
	CostEstimate *float64 `gorm:"column:cost_estimate" json:"cost_estimate,omitempty"`

	StartedAt   time.Time `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt time.Time `gorm:"column:completed_at;not null;default:now()" json:"completed_at"`
}

func (AIProcessingLog) TableName() string {
	return "ai_processing_log"
}

func (l *AIProcessingLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
