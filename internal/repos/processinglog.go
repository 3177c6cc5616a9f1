package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/types"
)

// ProcessingLogRepo is create-only: audit rows are immutable once written.
type ProcessingLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.AIProcessingLog) (*types.AIProcessingLog, error)
	GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, limit int) ([]*types.AIProcessingLog, error)
}

type processingLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessingLogRepo(db *gorm.DB, baseLog *logger.Logger) ProcessingLogRepo {
	repoLog := baseLog.With("repo", "ProcessingLogRepo")
	return &processingLogRepo{db: db, log: repoLog}
}

func (r *processingLogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *processingLogRepo) Create(ctx context.Context, tx *gorm.DB, row *types.AIProcessingLog) (*types.AIProcessingLog, error) {
	if err := r.conn(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *processingLogRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, limit int) ([]*types.AIProcessingLog, error) {
	var results []*types.AIProcessingLog
	if patientID == uuid.Nil {
		return results, nil
	}
	q := r.conn(tx).WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("completed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
