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

type RiskHandler struct {
	log   *logger.Logger
	risks services.RiskService
}

func NewRiskHandler(log *logger.Logger, risks services.RiskService) *RiskHandler {
	return &RiskHandler{
		log:   log.With("handler", "RiskHandler"),
		risks: risks,
	}
}

// GET /api/ai/risks/
func (h *RiskHandler) ListPredictions(c *gin.Context) {
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

	predictions, err := h.risks.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		h.log.Error("ListPredictions failed", "error", err, "patient_id", patientID)
		response.RespondError(c, http.StatusInternalServerError, "list_predictions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"predictions": predictions, "count": len(predictions)})
}

// POST /api/ai/risks/assess/
func (h *RiskHandler) AssessRisk(c *gin.Context) {
	var req services.AssessRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.PatientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	req.RequestedBy = clinicianID(c)

	prediction, err := h.risks.Assess(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedRiskType) {
			response.RespondError(c, http.StatusBadRequest, "invalid_risk_type", err)
			return
		}
		if errors.Is(err, services.ErrPatientNotFound) {
			response.RespondError(c, http.StatusNotFound, "patient_not_found", err)
			return
		}
		h.log.Error("AssessRisk failed", "error", err, "patient_id", req.PatientID, "risk_type", req.RiskType)
		response.RespondError(c, http.StatusInternalServerError, "assess_risk_failed", err)
		return
	}
	response.RespondCreated(c, prediction)
}

// POST /api/ai/risks/:id/validate/
func (h *RiskHandler) ValidatePrediction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_prediction_id", err)
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&body)

	prediction, err := h.risks.Validate(c.Request.Context(), id, clinicianID(c), body.Notes)
	if err != nil {
		if errors.Is(err, services.ErrPredictionNotFound) {
			response.RespondError(c, http.StatusNotFound, "prediction_not_found", err)
			return
		}
		h.log.Error("ValidatePrediction failed", "error", err, "prediction_id", id)
		response.RespondError(c, http.StatusInternalServerError, "validate_prediction_failed", err)
		return
	}
	response.RespondOK(c, prediction)
}
