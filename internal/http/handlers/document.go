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

type DocumentHandler struct {
	log       *logger.Logger
	documents services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documents services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		log:       log.With("handler", "DocumentHandler"),
		documents: documents,
	}
}

// POST /api/ai/documents/analyze/
func (h *DocumentHandler) AnalyzeDocument(c *gin.Context) {
	var req services.AnalyzeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.DocumentText == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_document_text", nil)
		return
	}
	req.RequestedBy = clinicianID(c)

	extracted, err := h.documents.ExtractClinicalData(c.Request.Context(), req)
	if err != nil {
		h.log.Error("AnalyzeDocument failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "analyze_document_failed", err)
		return
	}
	response.RespondOK(c, extracted)
}

// POST /api/ai/communication/generate/
func (h *DocumentHandler) GenerateCommunication(c *gin.Context) {
	var req services.GenerateCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.PatientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_patient_id", nil)
		return
	}
	req.RequestedBy = clinicianID(c)

	draft, err := h.documents.GenerateProviderCommunication(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			response.RespondError(c, http.StatusNotFound, "patient_not_found", err)
			return
		}
		var provErr *services.ProviderError
		if errors.As(err, &provErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to generate communication",
				"details": provErr.Details,
			})
			return
		}
		h.log.Error("GenerateCommunication failed", "error", err, "patient_id", req.PatientID)
		response.RespondError(c, http.StatusInternalServerError, "generate_communication_failed", err)
		return
	}
	response.RespondOK(c, draft)
}
