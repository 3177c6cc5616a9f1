package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/http/response"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/services"
)

type DecisionSupportHandler struct {
	log       *logger.Logger
	decisions services.DecisionSupportService
}

func NewDecisionSupportHandler(log *logger.Logger, decisions services.DecisionSupportService) *DecisionSupportHandler {
	return &DecisionSupportHandler{
		log:       log.With("handler", "DecisionSupportHandler"),
		decisions: decisions,
	}
}

// GET /api/ai/decision-support/
func (h *DecisionSupportHandler) ListRecommendations(c *gin.Context) {
	raw := c.Query("patient_id")
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	patientID, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
		return
	}

	recs, err := h.decisions.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		h.log.Error("ListRecommendations failed", "error", err, "patient_id", patientID)
		response.RespondError(c, http.StatusInternalServerError, "list_recommendations_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs, "count": len(recs)})
}

// POST /api/ai/decision-support/
func (h *DecisionSupportHandler) CreateRecommendation(c *gin.Context) {
	var input services.CreateDecisionSupportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if input.PatientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	if input.SupportType == "" || input.Title == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_required_fields", nil)
		return
	}

	rec, err := h.decisions.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			response.RespondError(c, http.StatusNotFound, "patient_not_found", err)
			return
		}
		h.log.Error("CreateRecommendation failed", "error", err, "patient_id", input.PatientID)
		response.RespondError(c, http.StatusInternalServerError, "create_recommendation_failed", err)
		return
	}
	response.RespondCreated(c, rec)
}

// POST /api/ai/decision-support/:id/status/
func (h *DecisionSupportHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_recommendation_id", err)
		return
	}

	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	rec, err := h.decisions.UpdateStatus(c.Request.Context(), id, body.Status, clinicianID(c), body.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDecisionStatus):
			response.RespondError(c, http.StatusBadRequest, "invalid_status", err)
		case errors.Is(err, services.ErrDecisionNotFound):
			response.RespondError(c, http.StatusNotFound, "recommendation_not_found", err)
		default:
			h.log.Error("UpdateStatus failed", "error", err, "recommendation_id", id)
			response.RespondError(c, http.StatusInternalServerError, "update_status_failed", err)
		}
		return
	}
	response.RespondOK(c, rec)
}
