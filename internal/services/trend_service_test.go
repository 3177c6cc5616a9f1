package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/observability"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

func newTrendService(t *testing.T, provider PatientDataProvider, ai CompletionClient) TrendService {
	t.Helper()
	db := serviceTestDB(t)
	log := testLogger(t)
	trendRepo := repos.NewPatientTrendRepo(db, log)
	logRepo := repos.NewProcessingLogRepo(db, log)
	return NewTrendService(db, log, trendRepo, logRepo, provider, ai, observability.NewMetrics(log))
}

func points(values ...float64) []TrendPoint {
	out := make([]TrendPoint, len(values))
	for i, v := range values {
		out[i] = TrendPoint{Timestamp: "2026-08-01", Value: v}
	}
	return out
}

func TestAnalyzeMetric_TooFewPointsIsRejected(t *testing.T) {
	patient := testPatient()
	svc := newTrendService(t, newFakeProvider(patient), &fakeCompletionClient{result: successResult("ok")})

	_, err := svc.AnalyzeMetric(context.Background(), AnalyzeTrendRequest{
		PatientID:      patient.ID,
		MetricName:     "systolic_bp",
		MetricCategory: types.MetricCategoryVitalSigns,
		DataPoints:     points(120, 125),
	})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyzeMetric_UnknownPatientIsRejected(t *testing.T) {
	svc := newTrendService(t, newFakeProvider(), &fakeCompletionClient{result: successResult("ok")})

	_, err := svc.AnalyzeMetric(context.Background(), AnalyzeTrendRequest{
		PatientID:  uuid.New(),
		MetricName: "systolic_bp",
		DataPoints: points(120, 125, 130),
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestAnalyzeMetric_StoresDirectionStrengthAndInterpretation(t *testing.T) {
	patient := testPatient()
	ai := &fakeCompletionClient{result: successResult("A significant decline in this metric.")}
	svc := newTrendService(t, newFakeProvider(patient), ai)

	trend, err := svc.AnalyzeMetric(context.Background(), AnalyzeTrendRequest{
		PatientID:      patient.ID,
		MetricName:     "mobility_score",
		MetricCategory: types.MetricCategoryMobility,
		DataPoints:     points(10, 10, 10, 20, 20, 20),
	})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if trend.TrendDirection != types.TrendImproving {
		t.Fatalf("expected improving, got %q", trend.TrendDirection)
	}
	if trend.TrendStrength <= 0 || trend.TrendStrength > 1 {
		t.Fatalf("strength out of range: %v", trend.TrendStrength)
	}
	if trend.AIInterpretation != "A significant decline in this metric." {
		t.Fatalf("interpretation not stored: %q", trend.AIInterpretation)
	}
	if trend.ClinicalSignificance != types.RiskLevelHigh {
		t.Fatalf("expected high significance from keyword, got %q", trend.ClinicalSignificance)
	}
	if trend.AnalysisPeriodDays != 30 {
		t.Fatalf("expected default 30 day period, got %d", trend.AnalysisPeriodDays)
	}
}

func TestAnalyzeMetric_FailedInterpretationDegradesGracefully(t *testing.T) {
	patient := testPatient()
	ai := &fakeCompletionClient{result: failureResult("provider down")}
	svc := newTrendService(t, newFakeProvider(patient), ai)

	trend, err := svc.AnalyzeMetric(context.Background(), AnalyzeTrendRequest{
		PatientID:      patient.ID,
		MetricName:     "pain_score",
		MetricCategory: types.MetricCategoryPainLevels,
		DataPoints:     points(3, 3, 3, 3),
	})
	if err != nil {
		t.Fatalf("analyze should not fail on interpretation errors: %v", err)
	}
	if trend.AIInterpretation != "" || trend.ClinicalSignificance != "" {
		t.Fatalf("expected empty interpretation on provider failure, got %+v", trend)
	}
	if trend.TrendDirection != types.TrendStable {
		t.Fatalf("statistics should still be computed, got %q", trend.TrendDirection)
	}
}

func TestAnalyzeMetric_ReanalysisUpdatesSameRow(t *testing.T) {
	patient := testPatient()
	svc := newTrendService(t, newFakeProvider(patient), &fakeCompletionClient{result: successResult("stable pattern")})

	req := AnalyzeTrendRequest{
		PatientID:      patient.ID,
		MetricName:     "heart_rate",
		MetricCategory: types.MetricCategoryVitalSigns,
		DataPoints:     points(70, 70, 70),
	}
	if _, err := svc.AnalyzeMetric(context.Background(), req); err != nil {
		t.Fatalf("first analysis failed: %v", err)
	}

	req.DataPoints = points(70, 70, 70, 90, 90, 90)
	if _, err := svc.AnalyzeMetric(context.Background(), req); err != nil {
		t.Fatalf("second analysis failed: %v", err)
	}

	trends, err := svc.ListByPatient(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(trends) != 1 {
		t.Fatalf("expected a single upserted row, got %d", len(trends))
	}
	if trends[0].TrendDirection != types.TrendImproving {
		t.Fatalf("expected re-analysis to replace direction, got %q", trends[0].TrendDirection)
	}
}
