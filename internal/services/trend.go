package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/observability"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

type AnalyzeTrendRequest struct {
	PatientID      uuid.UUID    `json:"patient_id"`
	MetricName     string       `json:"metric_name"`
	MetricCategory string       `json:"metric_category"`
	DataPoints     []TrendPoint `json:"data_points"`
	AnalysisDays   int          `json:"analysis_period_days,omitempty"`
	RequestedBy    uuid.UUID    `json:"-"`
}

type TrendService interface {
	// AnalyzeMetric computes direction and strength, asks the model for an
	// interpretation, and upserts the (patient, metric, category) trend row.
	AnalyzeMetric(ctx context.Context, req AnalyzeTrendRequest) (*types.PatientTrend, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*types.PatientTrend, error)
}

type trendService struct {
	db       *gorm.DB
	log      *logger.Logger
	trends   repos.PatientTrendRepo
	logs     repos.ProcessingLogRepo
	provider PatientDataProvider
	ai       CompletionClient
	metrics  *observability.Metrics
}

func NewTrendService(
	db *gorm.DB,
	log *logger.Logger,
	trends repos.PatientTrendRepo,
	logs repos.ProcessingLogRepo,
	provider PatientDataProvider,
	ai CompletionClient,
	metrics *observability.Metrics,
) TrendService {
	return &trendService{
		db:       db,
		log:      log.With("service", "TrendService"),
		trends:   trends,
		logs:     logs,
		provider: provider,
		ai:       ai,
		metrics:  metrics,
	}
}

func (s *trendService) AnalyzeMetric(ctx context.Context, req AnalyzeTrendRequest) (*types.PatientTrend, error) {
	patient, err := s.provider.PatientByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if len(req.DataPoints) < 3 {
		return nil, ErrInsufficientData
	}

	days := req.AnalysisDays
	if days <= 0 {
		days = 30
	}

	values := make([]float64, len(req.DataPoints))
	for i, p := range req.DataPoints {
		values[i] = p.Value
	}
	direction := TrendDirection(values)
	strength := TrendStrength(values)

	trendData := map[string]any{
		"metric":          req.MetricName,
		"data_points":     req.DataPoints,
		"trend_direction": direction,
		"trend_strength":  strength,
		"analysis_period": fmt.Sprintf("%d days", days),
	}
	system, user := promptTrendInterpretation(req.MetricName, days, trendData)

	startedAt := time.Now().UTC()
	result := s.ai.Complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, nil)

	var userID *uuid.UUID
	if req.RequestedBy != uuid.Nil {
		userID = &req.RequestedBy
	}
	patientID := patient.ID
	recordProcessing(ctx, s.log, s.logs, s.metrics, types.ProcessTypeTrendAnalysis,
		&patientID, userID, len(user), startedAt, result,
		map[string]any{"metric_name": req.MetricName, "trend_direction": direction})

	// The statistical pass stands on its own; a failed interpretation call
	// degrades to an empty interpretation rather than aborting the analysis.
	interpretation := ""
	significance := ""
	if result.Success {
		interpretation = result.Content
		significance = ClinicalSignificance(result.Content)
	} else {
		s.log.Warn("Trend interpretation unavailable", "patient_id", patient.ID, "metric_name", req.MetricName, "error", result.ErrorMessage)
	}

	trend := &types.PatientTrend{
		PatientID:            patient.ID,
		MetricName:           req.MetricName,
		MetricCategory:       req.MetricCategory,
		TrendDirection:       direction,
		TrendStrength:        strength,
		DataPoints:           toJSON(req.DataPoints),
		AnalysisPeriodDays:   days,
		AIInterpretation:     interpretation,
		ClinicalSignificance: significance,
		LastAnalyzed:         time.Now().UTC(),
	}
	return s.trends.Upsert(ctx, nil, trend)
}

func (s *trendService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*types.PatientTrend, error) {
	return s.trends.GetByPatientID(ctx, nil, patientID)
}
