package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/observability"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

type AnalyzeDocumentRequest struct {
	PatientID    uuid.UUID `json:"patient_id,omitempty"`
	DocumentText string    `json:"document_text"`
	DocumentType string    `json:"document_type"`
	RequestedBy  uuid.UUID `json:"-"`
}

type GenerateCommunicationRequest struct {
	PatientID   uuid.UUID `json:"patient_id"`
	Concerns    []string  `json:"concerns"`
	RequestedBy uuid.UUID `json:"-"`
}

type CommunicationDraft struct {
	PatientID     uuid.UUID `json:"patient_id"`
	Communication string    `json:"communication"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type DocumentService interface {
	ExtractClinicalData(ctx context.Context, req AnalyzeDocumentRequest) (map[string]any, error)
	GenerateProviderCommunication(ctx context.Context, req GenerateCommunicationRequest) (*CommunicationDraft, error)
}

type documentService struct {
	log      *logger.Logger
	logs     repos.ProcessingLogRepo
	provider PatientDataProvider
	ai       CompletionClient
	metrics  *observability.Metrics
}

func NewDocumentService(
	log *logger.Logger,
	logs repos.ProcessingLogRepo,
	provider PatientDataProvider,
	ai CompletionClient,
	metrics *observability.Metrics,
) DocumentService {
	return &documentService{
		log:      log.With("service", "DocumentService"),
		logs:     logs,
		provider: provider,
		ai:       ai,
		metrics:  metrics,
	}
}

func (s *documentService) ExtractClinicalData(ctx context.Context, req AnalyzeDocumentRequest) (map[string]any, error) {
	docType := req.DocumentType
	if docType == "" {
		docType = "clinical"
	}
	system, user := promptDocumentExtraction(req.DocumentText, docType)

	startedAt := time.Now().UTC()
	result := s.ai.Complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, nil)

	var patientID *uuid.UUID
	if req.PatientID != uuid.Nil {
		patientID = &req.PatientID
	}
	var userID *uuid.UUID
	if req.RequestedBy != uuid.Nil {
		userID = &req.RequestedBy
	}
	recordProcessing(ctx, s.log, s.logs, s.metrics, types.ProcessTypeDocumentAnalysis,
		patientID, userID, len(req.DocumentText), startedAt, result,
		map[string]any{"document_type": docType})

	if !result.Success {
		s.log.Warn("Document analysis call failed", "document_type", docType, "error", result.ErrorMessage)
		return map[string]any{"error": "Failed to analyze document"}, nil
	}
	return NormalizeJSON(result.Content), nil
}

func (s *documentService) GenerateProviderCommunication(ctx context.Context, req GenerateCommunicationRequest) (*CommunicationDraft, error) {
	patient, err := s.provider.PatientByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	patientData, err := CollectPatientData(ctx, s.provider, patient, false, 30)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	system, user := promptProviderCommunication(patientData, req.Concerns, now.Format("2006-01-02"))

	startedAt := now
	result := s.ai.Complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, nil)

	var userID *uuid.UUID
	if req.RequestedBy != uuid.Nil {
		userID = &req.RequestedBy
	}
	pid := patient.ID
	recordProcessing(ctx, s.log, s.logs, s.metrics, types.ProcessTypeDecisionSupport,
		&pid, userID, len(user), startedAt, result,
		map[string]any{"concerns": len(req.Concerns)})

	if !result.Success {
		return nil, &ProviderError{Details: result.ErrorMessage}
	}
	return &CommunicationDraft{
		PatientID:     patient.ID,
		Communication: result.Content,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
