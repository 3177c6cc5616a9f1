package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/types"
)

var (
	ErrDecisionNotFound      = errors.New("decision support record not found")
	ErrInvalidDecisionStatus = errors.New("invalid decision support status")
)

type CreateDecisionSupportInput struct {
	PatientID      uuid.UUID  `json:"patient_id"`
	VisitID        *uuid.UUID `json:"visit_id,omitempty"`
	SupportType    string     `json:"support_type"`
	Title          string     `json:"title"`
	Recommendation string     `json:"recommendation"`
	Rationale      string     `json:"rationale"`
	EvidenceLevel  string     `json:"evidence_level,omitempty"`
	CurrentStatus  string     `json:"current_status,omitempty"`
	Urgency        string     `json:"urgency,omitempty"`
}

type DecisionSupportService interface {
	Create(ctx context.Context, input CreateDecisionSupportInput) (*types.ClinicalDecisionSupport, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*types.ClinicalDecisionSupport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, notes string) (*types.ClinicalDecisionSupport, error)
}

type decisionSupportService struct {
	log      *logger.Logger
	records  repos.DecisionSupportRepo
	provider PatientDataProvider
}

func NewDecisionSupportService(log *logger.Logger, records repos.DecisionSupportRepo, provider PatientDataProvider) DecisionSupportService {
	return &decisionSupportService{
		log:      log.With("service", "DecisionSupportService"),
		records:  records,
		provider: provider,
	}
}

// terminal statuses a reviewer may move a pending recommendation into
var decisionStatusTransitions = map[string]bool{
	types.SupportStatusApproved:    true,
	types.SupportStatusImplemented: true,
	types.SupportStatusDeclined:    true,
	types.SupportStatusModified:    true,
}

func (s *decisionSupportService) Create(ctx context.Context, input CreateDecisionSupportInput) (*types.ClinicalDecisionSupport, error) {
	patient, err := s.provider.PatientByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	evidence := input.EvidenceLevel
	if evidence == "" {
		evidence = types.EvidenceLevelExpertOpinion
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = types.UrgencyRoutine
	}

	rec := &types.ClinicalDecisionSupport{
		PatientID:          patient.ID,
		VisitID:            input.VisitID,
		SupportType:        input.SupportType,
		Title:              input.Title,
		Recommendation:     input.Recommendation,
		Rationale:          input.Rationale,
		EvidenceLevel:      evidence,
		CurrentStatus:      input.CurrentStatus,
		ProposedChanges:    toJSON(map[string]any{}),
		ExpectedOutcomes:   toJSON(map[string]any{}),
		PotentialRisks:     toJSON(map[string]any{}),
		Urgency:            urgency,
		RequiresMDApproval: true,
		Status:             types.SupportStatusPending,
	}
	return s.records.Create(ctx, nil, rec)
}

func (s *decisionSupportService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*types.ClinicalDecisionSupport, error) {
	return s.records.GetByPatientID(ctx, nil, patientID)
}

func (s *decisionSupportService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID, notes string) (*types.ClinicalDecisionSupport, error) {
	if !decisionStatusTransitions[status] {
		return nil, ErrInvalidDecisionStatus
	}

	rec, err := s.records.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrDecisionNotFound
	}

	now := time.Now().UTC()
	rec.Status = status
	rec.ReviewedAt = &now
	if reviewerID != uuid.Nil {
		rec.ReviewedBy = &reviewerID
	}
	if notes != "" {
		rec.ImplementationNotes = notes
	}
	return s.records.Save(ctx, nil, rec)
}
