package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caresight/caresight-backend/internal/observability"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

var (
	ErrPredictionNotFound = errors.New("risk prediction not found")
	// ErrUnsupportedRiskType rejects risk kinds this endpoint cannot assess;
	// the other kinds are created by downstream pipelines.
	ErrUnsupportedRiskType = errors.New("unsupported risk type")
)

type AssessRiskRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	// fall_risk or readmission_risk; empty defaults to fall_risk.
	RiskType         string           `json:"risk_type"`
	RecentAdmissions []map[string]any `json:"recent_admissions,omitempty"`
	RequestedBy      uuid.UUID        `json:"-"`
}

type RiskService interface {
	Assess(ctx context.Context, req AssessRiskRequest) (*types.RiskPrediction, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*types.RiskPrediction, error)
	Validate(ctx context.Context, id, validatorID uuid.UUID, notes string) (*types.RiskPrediction, error)
}

type riskService struct {
	db          *gorm.DB
	log         *logger.Logger
	predictions repos.RiskPredictionRepo
	logs        repos.ProcessingLogRepo
	provider    PatientDataProvider
	ai          CompletionClient
	metrics     *observability.Metrics
}

func NewRiskService(
	db *gorm.DB,
	log *logger.Logger,
	predictions repos.RiskPredictionRepo,
	logs repos.ProcessingLogRepo,
	provider PatientDataProvider,
	ai CompletionClient,
	metrics *observability.Metrics,
) RiskService {
	return &riskService{
		db:          db,
		log:         log.With("service", "RiskService"),
		predictions: predictions,
		logs:        logs,
		provider:    provider,
		ai:          ai,
		metrics:     metrics,
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (s *riskService) Assess(ctx context.Context, req AssessRiskRequest) (*types.RiskPrediction, error) {
	switch req.RiskType {
	case "":
		req.RiskType = types.RiskTypeFall
	case types.RiskTypeFall, types.RiskTypeReadmission:
	default:
		return nil, ErrUnsupportedRiskType
	}

	patient, err := s.provider.PatientByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	patientData, err := CollectPatientData(ctx, s.provider, patient, true, 30)
	if err != nil {
		return nil, err
	}

	var system, user string
	if req.RiskType == types.RiskTypeReadmission {
		system, user = promptReadmissionRisk(patientData, req.RecentAdmissions)
	} else {
		system, user = promptFallRisk(ExtractFallRiskFactors(patientData))
	}

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
	recordProcessing(ctx, s.log, s.logs, s.metrics, types.ProcessTypeRiskAssessment,
		&patientID, userID, len(user), startedAt, result,
		map[string]any{"risk_type": req.RiskType})

	// A failed call or malformed model output degrades to a zero score with
	// empty evidence; the prediction row is still written so reviewers can see
	// the assessment happened.
	score := 0.0
	riskData := map[string]any{}
	if result.Success {
		score, riskData = ExtractRiskScore(result.Content)
	} else {
		s.log.Warn("Risk assessment call failed", "patient_id", patient.ID, "risk_type", req.RiskType, "error", result.ErrorMessage)
	}

	category, _ := riskData["risk_category"].(string)
	if category == "" {
		category = RiskCategoryFromScore(score)
	}

	prediction := &types.RiskPrediction{
		PatientID:                 patient.ID,
		RiskType:                  req.RiskType,
		RiskScore:                 score,
		RiskCategory:              category,
		ConfidenceInterval:        toJSON(map[string]any{}),
		ModelName:                 result.Model,
		FeatureImportance:         toJSON(map[string]any{}),
		RiskFactors:               toJSON(stringList(riskData["contributing_factors"])),
		ProtectiveFactors:         toJSON(stringList(riskData["protective_factors"])),
		PreventionStrategies:      toJSON(stringList(riskData["recommendations"])),
		MonitoringRecommendations: toJSON([]string{}),
	}
	return s.predictions.Create(ctx, nil, prediction)
}

func (s *riskService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*types.RiskPrediction, error) {
	return s.predictions.GetByPatientID(ctx, nil, patientID)
}

func (s *riskService) Validate(ctx context.Context, id, validatorID uuid.UUID, notes string) (*types.RiskPrediction, error) {
	prediction, err := s.predictions.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, ErrPredictionNotFound
	}

	prediction.IsValidated = true
	prediction.ValidationNotes = notes
	if validatorID != uuid.Nil {
		prediction.ValidatedBy = &validatorID
	}
	return s.predictions.Save(ctx, nil, prediction)
}
