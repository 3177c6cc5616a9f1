package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

// PatientDataProvider is the stable contract the insight pipeline consumes
// instead of reaching into collaborating modules' storage directly.
type PatientDataProvider interface {
	PatientByID(ctx context.Context, id uuid.UUID) (*types.Patient, error)
	VisitsSince(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*types.Visit, error)
}

type repoPatientDataProvider struct {
	db       *gorm.DB
	log      *logger.Logger
	patients repos.PatientRepo
	visits   repos.VisitRepo
}

func NewPatientDataProvider(db *gorm.DB, log *logger.Logger, patients repos.PatientRepo, visits repos.VisitRepo) PatientDataProvider {
	return &repoPatientDataProvider{
		db:       db,
		log:      log.With("service", "PatientDataProvider"),
		patients: patients,
		visits:   visits,
	}
}

func (p *repoPatientDataProvider) PatientByID(ctx context.Context, id uuid.UUID) (*types.Patient, error) {
	return p.patients.GetByID(ctx, nil, id)
}

func (p *repoPatientDataProvider) VisitsSince(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*types.Visit, error) {
	return p.visits.GetByPatientSince(ctx, nil, patientID, since, limit)
}

// CollectPatientData assembles the serializable context dump embedded into
// prompts: demographics plus the recent visit history when requested.
func CollectPatientData(ctx context.Context, provider PatientDataProvider, patient *types.Patient, includeHistorical bool, days int) (map[string]any, error) {
	data := map[string]any{
		"patient_id": patient.ID.String(),
		"demographics": map[string]any{
			"age":    patient.Age(time.Now().UTC()),
			"gender": patient.Gender,
		},
		"conditions":    []any{},
		"medications":   []any{},
		"recent_visits": []any{},
		"vital_signs":   []any{},
		"assessments":   []any{},
	}

	if includeHistorical {
		since := time.Now().UTC().AddDate(0, 0, -days)
		visits, err := provider.VisitsSince(ctx, patient.ID, since, 10)
		if err != nil {
			return nil, err
		}
		recent := make([]any, 0, len(visits))
		for _, visit := range visits {
			recent = append(recent, map[string]any{
				"date":  visit.VisitDate.Format(time.RFC3339),
				"type":  visit.VisitType,
				"notes": visit.Notes,
			})
		}
		data["recent_visits"] = recent
	}

	return data, nil
}
