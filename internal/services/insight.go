package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/observability"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrInsightNotFound = errors.New("insight not found")
)

// ProviderError wraps a failed completion so handlers can surface the provider
// message as {error, details} without treating it as an internal panic.
type ProviderError struct {
	Details string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("failed to generate insights: %s", e.Details)
}

func toJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(raw)
}

type GenerateInsightsRequest struct {
	PatientID             uuid.UUID `json:"patient_id"`
	InsightTypes          []string  `json:"insight_types,omitempty"`
	IncludeHistoricalData *bool     `json:"include_historical_data,omitempty"`
	AnalysisPeriodDays    int       `json:"analysis_period_days,omitempty"`
	RequestedBy           uuid.UUID `json:"-"`
}

type CreateInsightInput struct {
	PatientID          uuid.UUID      `json:"patient_id"`
	VisitID            *uuid.UUID     `json:"visit_id,omitempty"`
	InsightType        string         `json:"insight_type"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	RiskLevel          string         `json:"risk_level,omitempty"`
	PriorityScore      *float64       `json:"priority_score,omitempty"`
	ConfidenceScore    float64        `json:"confidence_score,omitempty"`
	ModelUsed          string         `json:"model_used,omitempty"`
	ModelVersion       string         `json:"model_version,omitempty"`
	DataSources        []string       `json:"data_sources,omitempty"`
	Evidence           map[string]any `json:"evidence,omitempty"`
	IsActionable       *bool          `json:"is_actionable,omitempty"`
	RecommendedActions []string       `json:"recommended_actions,omitempty"`
	UrgencyLevel       string         `json:"urgency_level,omitempty"`
	ExpiresAt          *time.Time     `json:"expires_at,omitempty"`
	CreatedBy          uuid.UUID      `json:"-"`
}

type UpdateInsightInput struct {
	Title              *string   `json:"title,omitempty"`
	Description        *string   `json:"description,omitempty"`
	RiskLevel          *string   `json:"risk_level,omitempty"`
	PriorityScore      *float64  `json:"priority_score,omitempty"`
	UrgencyLevel       *string   `json:"urgency_level,omitempty"`
	Status             *string   `json:"status,omitempty"`
	IsActionable       *bool     `json:"is_actionable,omitempty"`
	RecommendedActions *[]string `json:"recommended_actions,omitempty"`
}

type InsightService interface {
	Generate(ctx context.Context, req GenerateInsightsRequest) ([]*types.Insight, error)
	Create(ctx context.Context, input CreateInsightInput) (*types.Insight, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Insight, error)
	List(ctx context.Context, filter repos.InsightFilter) ([]*types.Insight, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInsightInput) (*types.Insight, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*types.Insight, error)
	Dismiss(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*types.Insight, error)
	Dashboard(ctx context.Context, patientID uuid.UUID) (*repos.DashboardSummary, error)
}

type insightService struct {
	db       *gorm.DB
	log      *logger.Logger
	insights repos.InsightRepo
	logs     repos.ProcessingLogRepo
	provider PatientDataProvider
	ai       CompletionClient
	metrics  *observability.Metrics
}

func NewInsightService(
	db *gorm.DB,
	log *logger.Logger,
	insights repos.InsightRepo,
	logs repos.ProcessingLogRepo,
	provider PatientDataProvider,
	ai CompletionClient,
	metrics *observability.Metrics,
) InsightService {
	return &insightService{
		db:       db,
		log:      log.With("service", "InsightService"),
		insights: insights,
		logs:     logs,
		provider: provider,
		ai:       ai,
		metrics:  metrics,
	}
}

// recordProcessing writes the audit row for one completion call. The row is
// written for failures too, so the audit trail stays complete.
func recordProcessing(
	ctx context.Context,
	log *logger.Logger,
	logs repos.ProcessingLogRepo,
	metrics *observability.Metrics,
	processType string,
	patientID *uuid.UUID,
	userID *uuid.UUID,
	inputSize int,
	startedAt time.Time,
	result *CompletionResult,
	outputSummary map[string]any,
) {
	tokens := result.TokensUsed
	row := &types.AIProcessingLog{
		PatientID:             patientID,
		UserID:                userID,
		ProcessType:           processType,
		ModelUsed:             result.Model,
		InputDataSize:         inputSize,
		ProcessingTimeSeconds: result.ProcessingSeconds,
		Success:               result.Success,
		ErrorMessage:          result.ErrorMessage,
		OutputSummary:         toJSON(outputSummary),
		TokensUsed:            &tokens,
		StartedAt:             startedAt,
		CompletedAt:           time.Now().UTC(),
	}
	if _, err := logs.Create(ctx, nil, row); err != nil {
		log.Error("Failed to write AI processing log", "process_type", processType, "error", err)
	}
	metrics.RecordAICall(ctx, processType, result.Success, result.TokensUsed)
}

func (s *insightService) Generate(ctx context.Context, req GenerateInsightsRequest) ([]*types.Insight, error) {
	patient, err := s.provider.PatientByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	includeHistorical := true
	if req.IncludeHistoricalData != nil {
		includeHistorical = *req.IncludeHistoricalData
	}
	days := req.AnalysisPeriodDays
	if days <= 0 {
		days = 30
	}

	patientData, err := CollectPatientData(ctx, s.provider, patient, includeHistorical, days)
	if err != nil {
		return nil, err
	}

	system, user := promptPatientSummary(patientData)
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
	recordProcessing(ctx, s.log, s.logs, s.metrics, types.ProcessTypeInsightGeneration,
		&patientID, userID, len(user), startedAt, result,
		map[string]any{"insight_types": req.InsightTypes})

	if !result.Success {
		s.log.Warn("Insight generation failed", "patient_id", patient.ID, "error", result.ErrorMessage)
		return nil, &ProviderError{Details: result.ErrorMessage}
	}

	// One summary insight per generation run. Risk level and priority are the
	// documented generation defaults until real classification exists; the
	// confidence score is the provider placeholder, not model-reported
	// uncertainty.
	insight := &types.Insight{
		PatientID:          patient.ID,
		CreatedBy:          userID,
		InsightType:        types.InsightTypeRiskAssessment,
		Title:              "AI-Generated Patient Analysis",
		Description:        result.Content,
		RiskLevel:          types.RiskLevelLow,
		PriorityScore:      0.5,
		ConfidenceScore:    result.Confidence,
		ModelUsed:          result.Model,
		DataSources:        toJSON([]string{"patient_data", "visit_history"}),
		Evidence:           toJSON(map[string]any{"ai_analysis": result.Content}),
		IsActionable:       true,
		RecommendedActions: toJSON([]string{"Review AI analysis", "Consider clinical correlation"}),
		UrgencyLevel:       types.UrgencyRoutine,
		Status:             types.InsightStatusNew,
	}
	created, err := s.insights.Create(ctx, nil, insight)
	if err != nil {
		return nil, err
	}

	s.log.Info("Generated insights", "patient_id", patient.ID, "count", 1)
	return []*types.Insight{created}, nil
}

func (s *insightService) Create(ctx context.Context, input CreateInsightInput) (*types.Insight, error) {
	if input.PatientID == uuid.Nil {
		return nil, ErrPatientNotFound
	}

	riskLevel := input.RiskLevel
	if riskLevel == "" {
		riskLevel = types.RiskLevelLow
	}
	priority := 0.5
	if input.PriorityScore != nil {
		priority = *input.PriorityScore
	}
	urgency := input.UrgencyLevel
	if urgency == "" {
		urgency = types.UrgencyRoutine
	}
	actionable := true
	if input.IsActionable != nil {
		actionable = *input.IsActionable
	}

	var createdBy *uuid.UUID
	if input.CreatedBy != uuid.Nil {
		createdBy = &input.CreatedBy
	}

	insight := &types.Insight{
		PatientID:          input.PatientID,
		VisitID:            input.VisitID,
		CreatedBy:          createdBy,
		InsightType:        input.InsightType,
		Title:              input.Title,
		Description:        input.Description,
		RiskLevel:          riskLevel,
		PriorityScore:      priority,
		ConfidenceScore:    input.ConfidenceScore,
		ModelUsed:          input.ModelUsed,
		ModelVersion:       input.ModelVersion,
		DataSources:        toJSON(input.DataSources),
		Evidence:           toJSON(input.Evidence),
		IsActionable:       actionable,
		RecommendedActions: toJSON(input.RecommendedActions),
		UrgencyLevel:       urgency,
		Status:             types.InsightStatusNew,
		ExpiresAt:          input.ExpiresAt,
	}
	return s.insights.Create(ctx, nil, insight)
}

func (s *insightService) Get(ctx context.Context, id uuid.UUID) (*types.Insight, error) {
	insight, err := s.insights.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if insight == nil {
		return nil, ErrInsightNotFound
	}
	return insight, nil
}

func (s *insightService) List(ctx context.Context, filter repos.InsightFilter) ([]*types.Insight, error) {
	return s.insights.List(ctx, nil, filter)
}

func (s *insightService) Update(ctx context.Context, id uuid.UUID, input UpdateInsightInput) (*types.Insight, error) {
	insight, err := s.insights.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if insight == nil {
		return nil, ErrInsightNotFound
	}

	if input.Title != nil {
		insight.Title = *input.Title
	}
	if input.Description != nil {
		insight.Description = *input.Description
	}
	if input.RiskLevel != nil {
		insight.RiskLevel = *input.RiskLevel
	}
	if input.PriorityScore != nil {
		insight.PriorityScore = *input.PriorityScore
	}
	if input.UrgencyLevel != nil {
		insight.UrgencyLevel = *input.UrgencyLevel
	}
	if input.Status != nil {
		insight.Status = *input.Status
	}
	if input.IsActionable != nil {
		insight.IsActionable = *input.IsActionable
	}
	if input.RecommendedActions != nil {
		insight.RecommendedActions = toJSON(*input.RecommendedActions)
	}

	return s.insights.Save(ctx, nil, insight)
}

func (s *insightService) Delete(ctx context.Context, id uuid.UUID) error {
	insight, err := s.insights.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if insight == nil {
		return ErrInsightNotFound
	}
	return s.insights.DeleteByID(ctx, nil, id)
}

func (s *insightService) review(ctx context.Context, id, reviewerID uuid.UUID, status, notes string) (*types.Insight, error) {
	insight, err := s.insights.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if insight == nil {
		return nil, ErrInsightNotFound
	}

	// Unconditional overwrite: repeating the action is a no-op apart from the
	// reviewer stamp, which the latest call wins.
	now := time.Now().UTC()
	insight.Status = status
	insight.ReviewedAt = &now
	insight.ReviewNotes = notes
	if reviewerID != uuid.Nil {
		insight.ReviewedBy = &reviewerID
	}
	return s.insights.Save(ctx, nil, insight)
}

func (s *insightService) MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*types.Insight, error) {
	return s.review(ctx, id, reviewerID, types.InsightStatusReviewed, notes)
}

func (s *insightService) Dismiss(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*types.Insight, error) {
	return s.review(ctx, id, reviewerID, types.InsightStatusDismissed, reason)
}

func (s *insightService) Dashboard(ctx context.Context, patientID uuid.UUID) (*repos.DashboardSummary, error) {
	return s.insights.Dashboard(ctx, nil, patientID, 10)
}
