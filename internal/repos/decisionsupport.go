package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/types"
)

type DecisionSupportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.ClinicalDecisionSupport) (*types.ClinicalDecisionSupport, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClinicalDecisionSupport, error)
	GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.ClinicalDecisionSupport, error)
	Save(ctx context.Context, tx *gorm.DB, rec *types.ClinicalDecisionSupport) (*types.ClinicalDecisionSupport, error)
}

type decisionSupportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDecisionSupportRepo(db *gorm.DB, baseLog *logger.Logger) DecisionSupportRepo {
	repoLog := baseLog.With("repo", "DecisionSupportRepo")
	return &decisionSupportRepo{db: db, log: repoLog}
}

func (r *decisionSupportRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *decisionSupportRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.ClinicalDecisionSupport) (*types.ClinicalDecisionSupport, error) {
	if err := r.conn(tx).WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *decisionSupportRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClinicalDecisionSupport, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.ClinicalDecisionSupport
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *decisionSupportRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.ClinicalDecisionSupport, error) {
	var results []*types.ClinicalDecisionSupport
	if patientID == uuid.Nil {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *decisionSupportRepo) Save(ctx context.Context, tx *gorm.DB, rec *types.ClinicalDecisionSupport) (*types.ClinicalDecisionSupport, error) {
	if err := r.conn(tx).WithContext(ctx).Save(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}
