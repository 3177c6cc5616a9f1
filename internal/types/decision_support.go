package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClinicalDecisionSupport is a clinician-facing recommendation that requires
// explicit approval before acting.
type ClinicalDecisionSupport struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PatientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	VisitID   *uuid.UUID `gorm:"type:uuid" json:"visit_id,omitempty"`

	SupportType string `gorm:"column:support_type;not null" json:"support_type"`

	Title          string `gorm:"column:title;not null" json:"title"`
	Recommendation string `gorm:"column:recommendation" json:"recommendation"`
	Rationale      string `gorm:"column:rationale" json:"rationale"`
	EvidenceLevel  string `gorm:"column:evidence_level;not null;default:expert_opinion" json:"evidence_level"`

	CurrentStatus    string         `gorm:"column:current_status" json:"current_status"`
	ProposedChanges  datatypes.JSON `gorm:"type:jsonb;column:proposed_changes" json:"proposed_changes"`
	ExpectedOutcomes datatypes.JSON `gorm:"type:jsonb;column:expected_outcomes" json:"expected_outcomes"`
	PotentialRisks   datatypes.JSON `gorm:"type:jsonb;column:potential_risks" json:"potential_risks"`

	Urgency             string `gorm:"column:urgency;not null;default:routine" json:"urgency"`
	RequiresMDApproval  bool   `gorm:"column:requires_md_approval;not null;default:true" json:"requires_md_approval"`
	ImplementationNotes string `gorm:"column:implementation_notes" json:"implementation_notes"`

	Status     string     `gorm:"column:status;not null;default:pending" json:"status"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid;column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ClinicalDecisionSupport) TableName() string {
	return "clinical_decision_support"
}

func (d *ClinicalDecisionSupport) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
