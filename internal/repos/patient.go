package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/types"
)

// PatientRepo and VisitRepo are read paths into collaborating modules' data.
// The insight pipeline treats them as external providers and never writes here.
type PatientRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Patient, error)
}

type VisitRepo interface {
	GetByPatientSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, since time.Time, limit int) ([]*types.Visit, error)
}

type patientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
	repoLog := baseLog.With("repo", "PatientRepo")
	return &patientRepo{db: db, log: repoLog}
}

func (r *patientRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *patientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Patient, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.Patient
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type visitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVisitRepo(db *gorm.DB, baseLog *logger.Logger) VisitRepo {
	repoLog := baseLog.With("repo", "VisitRepo")
	return &visitRepo{db: db, log: repoLog}
}

func (r *visitRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *visitRepo) GetByPatientSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, since time.Time, limit int) ([]*types.Visit, error) {
	var results []*types.Visit
	if patientID == uuid.Nil {
		return results, nil
	}
	q := r.conn(tx).WithContext(ctx).
		Where("patient_id = ? AND visit_date >= ?", patientID, since).
		Order("visit_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
