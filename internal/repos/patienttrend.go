package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/types"
)

type PatientTrendRepo interface {
	// Upsert writes the row for (patient, metric, category), replacing the
	// analysis fields of an existing row instead of inserting a duplicate.
	Upsert(ctx context.Context, tx *gorm.DB, trend *types.PatientTrend) (*types.PatientTrend, error)
	GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.PatientTrend, error)
	GetByPatientAndMetric(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, metricName, metricCategory string) (*types.PatientTrend, error)
}

type patientTrendRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatientTrendRepo(db *gorm.DB, baseLog *logger.Logger) PatientTrendRepo {
	repoLog := baseLog.With("repo", "PatientTrendRepo")
	return &patientTrendRepo{db: db, log: repoLog}
}

func (r *patientTrendRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *patientTrendRepo) Upsert(ctx context.Context, tx *gorm.DB, trend *types.PatientTrend) (*types.PatientTrend, error) {
	err := r.conn(tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "patient_id"},
			{Name: "metric_name"},
			{Name: "metric_category"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"trend_direction",
			"trend_strength",
			"statistical_significance",
			"data_points",
			"analysis_period_days",
			"ai_interpretation",
			"clinical_significance",
			"last_analyzed",
			"updated_at",
		}),
	}).Create(trend).Error
	if err != nil {
		return nil, err
	}
	return trend, nil
}

func (r *patientTrendRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.PatientTrend, error) {
	var results []*types.PatientTrend
	if patientID == uuid.Nil {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("trend_strength DESC, updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *patientTrendRepo) GetByPatientAndMetric(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, metricName, metricCategory string) (*types.PatientTrend, error) {
	if patientID == uuid.Nil {
		return nil, nil
	}
	var result types.PatientTrend
	err := r.conn(tx).WithContext(ctx).
		Where("patient_id = ? AND metric_name = ? AND metric_category = ?", patientID, metricName, metricCategory).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
