package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit is the read-only visit history record consumed during patient data
// collection.
type Visit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`

	VisitDate time.Time `gorm:"column:visit_date;not null;index" json:"visit_date"`
	VisitType string    `gorm:"column:visit_type" json:"visit_type"`
	Notes     string    `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Visit) TableName() string {
	return "visit"
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
