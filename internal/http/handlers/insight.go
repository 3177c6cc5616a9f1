package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/http/response"
	"github.com/caresight/caresight-backend/internal/platform/ctxutil"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/services"
)

type InsightHandler struct {
	log      *logger.Logger
	insights services.InsightService
}

func NewInsightHandler(log *logger.Logger, insights services.InsightService) *InsightHandler {
	return &InsightHandler{
		log:      log.With("handler", "InsightHandler"),
		insights: insights,
	}
}

func clinicianID(c *gin.Context) uuid.UUID {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.ClinicianID
}

// POST /api/ai/generate/
func (h *InsightHandler) GenerateInsights(c *gin.Context) {
	var req services.GenerateInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.PatientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	req.RequestedBy = clinicianID(c)

	insights, err := h.insights.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			response.RespondError(c, http.StatusNotFound, "patient_not_found", err)
			return
		}
		var provErr *services.ProviderError
		if errors.As(err, &provErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to generate insights",
				"details": provErr.Details,
			})
			return
		}
		h.log.Error("GenerateInsights failed", "error", err, "patient_id", req.PatientID)
		response.RespondError(c, http.StatusInternalServerError, "generate_insights_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"success":            true,
		"insights_generated": len(insights),
		"insights":           insights,
	})
}

// GET /api/ai/dashboard/
func (h *InsightHandler) Dashboard(c *gin.Context) {
	var patientID uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
			return
		}
		patientID = id
	}

	summary, err := h.insights.Dashboard(c.Request.Context(), patientID)
	if err != nil {
		h.log.Error("Dashboard failed", "error", err, "patient_id", patientID)
		response.RespondError(c, http.StatusInternalServerError, "dashboard_failed", err)
		return
	}
	response.RespondOK(c, summary)
}

// GET /api/ai/insights/
func (h *InsightHandler) ListInsights(c *gin.Context) {
	filter := repos.InsightFilter{
		InsightType:  c.Query("insight_type"),
		RiskLevel:    c.Query("risk_level"),
		Status:       c.Query("status"),
		CriticalOnly: c.Query("critical_only") == "true",
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
			return
		}
		filter.PatientID = id
	}

	insights, err := h.insights.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("ListInsights failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_insights_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"insights": insights, "count": len(insights)})
}

// POST /api/ai/insights/
func (h *InsightHandler) CreateInsight(c *gin.Context) {
	var input services.CreateInsightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if input.PatientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	input.CreatedBy = clinicianID(c)

	insight, err := h.insights.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			response.RespondError(c, http.StatusNotFound, "patient_not_found", err)
			return
		}
		h.log.Error("CreateInsight failed", "error", err, "patient_id", input.PatientID)
		response.RespondError(c, http.StatusInternalServerError, "create_insight_failed", err)
		return
	}
	response.RespondCreated(c, insight)
}

// GET /api/ai/insights/:id
func (h *InsightHandler) GetInsight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_insight_id", err)
		return
	}

	insight, err := h.insights.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			response.RespondError(c, http.StatusNotFound, "insight_not_found", err)
			return
		}
		h.log.Error("GetInsight failed", "error", err, "insight_id", id)
		response.RespondError(c, http.StatusInternalServerError, "get_insight_failed", err)
		return
	}
	response.RespondOK(c, insight)
}

// PATCH /api/ai/insights/:id
func (h *InsightHandler) UpdateInsight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_insight_id", err)
		return
	}

	var input services.UpdateInsightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	insight, err := h.insights.Update(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			response.RespondError(c, http.StatusNotFound, "insight_not_found", err)
			return
		}
		h.log.Error("UpdateInsight failed", "error", err, "insight_id", id)
		response.RespondError(c, http.StatusInternalServerError, "update_insight_failed", err)
		return
	}
	response.RespondOK(c, insight)
}

// DELETE /api/ai/insights/:id
func (h *InsightHandler) DeleteInsight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_insight_id", err)
		return
	}

	if err := h.insights.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			response.RespondError(c, http.StatusNotFound, "insight_not_found", err)
			return
		}
		h.log.Error("DeleteInsight failed", "error", err, "insight_id", id)
		response.RespondError(c, http.StatusInternalServerError, "delete_insight_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/ai/insights/:id/mark_reviewed/
func (h *InsightHandler) MarkReviewed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_insight_id", err)
		return
	}

	var body struct {
		ReviewNotes string `json:"review_notes"`
	}
	// Body is optional on review actions.
	_ = c.ShouldBindJSON(&body)

	if _, err := h.insights.MarkReviewed(c.Request.Context(), id, clinicianID(c), body.ReviewNotes); err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			response.RespondError(c, http.StatusNotFound, "insight_not_found", err)
			return
		}
		h.log.Error("MarkReviewed failed", "error", err, "insight_id", id)
		response.RespondError(c, http.StatusInternalServerError, "mark_reviewed_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "Insight marked as reviewed"})
}

// POST /api/ai/insights/:id/dismiss/
func (h *InsightHandler) Dismiss(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_insight_id", err)
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	if _, err := h.insights.Dismiss(c.Request.Context(), id, clinicianID(c), body.Reason); err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			response.RespondError(c, http.StatusNotFound, "insight_not_found", err)
			return
		}
		h.log.Error("Dismiss failed", "error", err, "insight_id", id)
		response.RespondError(c, http.StatusInternalServerError, "dismiss_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "Insight dismissed"})
}
