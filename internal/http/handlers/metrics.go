package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caresight/caresight-backend/internal/http/response"
	"github.com/caresight/caresight-backend/internal/observability"
)

type MetricsHandler struct {
	metrics *observability.Metrics
}

func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// GET /api/ai/metrics/
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	counters := h.metrics.Snapshot(c.Request.Context())
	response.RespondOK(c, gin.H{
		"enabled":  counters != nil,
		"counters": counters,
	})
}
