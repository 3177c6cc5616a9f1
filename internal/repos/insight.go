package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/types"
)

// InsightFilter mirrors the list query parameters. Zero values mean "no filter".
type InsightFilter struct {
	PatientID    uuid.UUID
	InsightType  string
	RiskLevel    string
	Status       string
	CriticalOnly bool
}

// DashboardSummary is the aggregation payload for the insights dashboard.
type DashboardSummary struct {
	TotalInsights       int64            `json:"total_insights"`
	CriticalInsights    int64            `json:"critical_insights"`
	NewInsights         int64            `json:"new_insights"`
	InsightsByType      map[string]int64 `json:"insights_by_type"`
	InsightsByRiskLevel map[string]int64 `json:"insights_by_risk_level"`
	RecentInsights      []*types.Insight `json:"recent_insights"`
}

type InsightRepo interface {
	Create(ctx context.Context, tx *gorm.DB, insight *types.Insight) (*types.Insight, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Insight, error)
	List(ctx context.Context, tx *gorm.DB, filter InsightFilter) ([]*types.Insight, error)
	Save(ctx context.Context, tx *gorm.DB, insight *types.Insight) (*types.Insight, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Dashboard(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, recentLimit int) (*DashboardSummary, error)
}

type insightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
	repoLog := baseLog.With("repo", "InsightRepo")
	return &insightRepo{db: db, log: repoLog}
}

func (r *insightRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *insightRepo) Create(ctx context.Context, tx *gorm.DB, insight *types.Insight) (*types.Insight, error) {
	if err := r.conn(tx).WithContext(ctx).Create(insight).Error; err != nil {
		return nil, err
	}
	return insight, nil
}

func (r *insightRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Insight, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.Insight
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func applyInsightFilter(q *gorm.DB, filter InsightFilter) *gorm.DB {
	if filter.PatientID != uuid.Nil {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.InsightType != "" {
		q = q.Where("insight_type = ?", filter.InsightType)
	}
	if filter.RiskLevel != "" {
		q = q.Where("risk_level = ?", filter.RiskLevel)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CriticalOnly {
		q = q.Where("risk_level = ? OR urgency_level = ?", types.RiskLevelCritical, types.UrgencyImmediate)
	}
	return q
}

func (r *insightRepo) List(ctx context.Context, tx *gorm.DB, filter InsightFilter) ([]*types.Insight, error) {
	var results []*types.Insight
	q := applyInsightFilter(r.conn(tx).WithContext(ctx).Model(&types.Insight{}), filter)
	if err := q.Order("priority_score DESC, created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *insightRepo) Save(ctx context.Context, tx *gorm.DB, insight *types.Insight) (*types.Insight, error) {
	if err := r.conn(tx).WithContext(ctx).Save(insight).Error; err != nil {
		return nil, err
	}
	return insight, nil
}

func (r *insightRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Where("id = ?", id).Delete(&types.Insight{}).Error
}

func (r *insightRepo) Dashboard(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, recentLimit int) (*DashboardSummary, error) {
	conn := r.conn(tx).WithContext(ctx)
	base := func() *gorm.DB {
		q := conn.Model(&types.Insight{})
		if patientID != uuid.Nil {
			q = q.Where("patient_id = ?", patientID)
		}
		return q
	}

	summary := &DashboardSummary{
		InsightsByType:      map[string]int64{},
		InsightsByRiskLevel: map[string]int64{},
	}

	if err := base().Count(&summary.TotalInsights).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("risk_level = ? OR urgency_level = ?", types.RiskLevelCritical, types.UrgencyImmediate).
		Count(&summary.CriticalInsights).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", types.InsightStatusNew).Count(&summary.NewInsights).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byType []bucket
	if err := base().
		Select("insight_type AS key, COUNT(id) AS count").
		Group("insight_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		summary.InsightsByType[b.Key] = b.Count
	}

	var byRisk []bucket
	if err := base().
		Select("risk_level AS key, COUNT(id) AS count").
		Group("risk_level").
		Scan(&byRisk).Error; err != nil {
		return nil, err
	}
	for _, b := range byRisk {
		summary.InsightsByRiskLevel[b.Key] = b.Count
	}

	if recentLimit <= 0 {
		recentLimit = 10
	}
	if err := base().
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&summary.RecentInsights).Error; err != nil {
		return nil, err
	}
	if summary.RecentInsights == nil {
		summary.RecentInsights = []*types.Insight{}
	}

	return summary, nil
}
