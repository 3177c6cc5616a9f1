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

type TrendHandler struct {
	log    *logger.Logger
	trends services.TrendService
}

func NewTrendHandler(log *logger.Logger, trends services.TrendService) *TrendHandler {
	return &TrendHandler{
		log:    log.With("handler", "TrendHandler"),
		trends: trends,
	}
}

// GET /api/ai/trends/
func (h *TrendHandler) ListTrends(c *gin.Context) {
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

	trends, err := h.trends.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		h.log.Error("ListTrends failed", "error", err, "patient_id", patientID)
		response.RespondError(c, http.StatusInternalServerError, "list_trends_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"trends": trends, "count": len(trends)})
}

// POST /api/ai/trends/analyze/
func (h *TrendHandler) AnalyzeTrend(c *gin.Context) {
	var req services.AnalyzeTrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.PatientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	if req.MetricName == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_metric_name", nil)
		return
	}
	req.RequestedBy = clinicianID(c)

	trend, err := h.trends.AnalyzeMetric(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			response.RespondError(c, http.StatusNotFound, "patient_not_found", err)
		case errors.Is(err, services.ErrInsufficientData):
			response.RespondError(c, http.StatusBadRequest, "insufficient_data_points", err)
		default:
			h.log.Error("AnalyzeTrend failed", "error", err, "patient_id", req.PatientID, "metric_name", req.MetricName)
			response.RespondError(c, http.StatusInternalServerError, "analyze_trend_failed", err)
		}
		return
	}
	response.RespondOK(c, trend)
}
