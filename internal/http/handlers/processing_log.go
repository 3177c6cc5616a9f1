package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caresight/caresight-backend/internal/http/response"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
)

type ProcessingLogHandler struct {
	log  *logger.Logger
	logs repos.ProcessingLogRepo
}

func NewProcessingLogHandler(log *logger.Logger, logs repos.ProcessingLogRepo) *ProcessingLogHandler {
	return &ProcessingLogHandler{
		log:  log.With("handler", "ProcessingLogHandler"),
		logs: logs,
	}
}

// GET /api/ai/processing-logs/
func (h *ProcessingLogHandler) ListLogs(c *gin.Context) {
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

	limit := 50
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if n, err := strconv.Atoi(rawLimit); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := h.logs.GetByPatientID(c.Request.Context(), nil, patientID, limit)
	if err != nil {
		h.log.Error("ListLogs failed", "error", err, "patient_id", patientID)
		response.RespondError(c, http.StatusInternalServerError, "list_logs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"logs": rows, "count": len(rows)})
}
