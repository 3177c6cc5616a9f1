package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/types"
)

type RiskPredictionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prediction *types.RiskPrediction) (*types.RiskPrediction, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RiskPrediction, error)
	GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.RiskPrediction, error)
	Save(ctx context.Context, tx *gorm.DB, prediction *types.RiskPrediction) (*types.RiskPrediction, error)
}

type riskPredictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRiskPredictionRepo(db *gorm.DB, baseLog *logger.Logger) RiskPredictionRepo {
	repoLog := baseLog.With("repo", "RiskPredictionRepo")
	return &riskPredictionRepo{db: db, log: repoLog}
}

func (r *riskPredictionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *riskPredictionRepo) Create(ctx context.Context, tx *gorm.DB, prediction *types.RiskPrediction) (*types.RiskPrediction, error) {
	if err := r.conn(tx).WithContext(ctx).Create(prediction).Error; err != nil {
		return nil, err
	}
	return prediction, nil
}

func (r *riskPredictionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RiskPrediction, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.RiskPrediction
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *riskPredictionRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.RiskPrediction, error) {
	var results []*types.RiskPrediction
	if patientID == uuid.Nil {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("risk_score DESC, created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *riskPredictionRepo) Save(ctx context.Context, tx *gorm.DB, prediction *types.RiskPrediction) (*types.RiskPrediction, error) {
	if err := r.conn(tx).WithContext(ctx).Save(prediction).Error; err != nil {
		return nil, err
	}
	return prediction, nil
}
