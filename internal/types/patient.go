package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is the read-only collaborator record backing the PatientDataProvider.
// The insight pipeline never mutates these rows.
type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MRN         string     `gorm:"uniqueIndex;column:mrn" json:"mrn"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"column:gender" json:"gender"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patient"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Patient) FullName() string {
	if p.FirstName == "" && p.LastName == "" {
		return ""
	}
	return p.FirstName + " " + p.LastName
}

func (p *Patient) Age(now time.Time) int {
	if p.DateOfBirth == nil {
		return 0
	}
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
