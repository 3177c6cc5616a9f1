package server

import (
	"github.com/gin-gonic/gin"

	"github.com/caresight/caresight-backend/internal/http/handlers"
	"github.com/caresight/caresight-backend/internal/http/middleware"
	"github.com/caresight/caresight-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler        *handlers.HealthHandler
	InsightHandler       *handlers.InsightHandler
	TrendHandler         *handlers.TrendHandler
	RiskHandler          *handlers.RiskHandler
	DecisionHandler      *handlers.DecisionSupportHandler
	DocumentHandler      *handlers.DocumentHandler
	ProcessingLogHandler *handlers.ProcessingLogHandler
	MetricsHandler       *handlers.MetricsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.AttachRequestContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api/ai")
	{
		api.POST("/generate/", cfg.InsightHandler.GenerateInsights)
		api.GET("/dashboard/", cfg.InsightHandler.Dashboard)

		api.GET("/insights/", cfg.InsightHandler.ListInsights)
		api.POST("/insights/", cfg.InsightHandler.CreateInsight)
		api.GET("/insights/:id", cfg.InsightHandler.GetInsight)
		api.PATCH("/insights/:id", cfg.InsightHandler.UpdateInsight)
		api.DELETE("/insights/:id", cfg.InsightHandler.DeleteInsight)
		api.POST("/insights/:id/mark_reviewed/", cfg.InsightHandler.MarkReviewed)
		api.POST("/insights/:id/dismiss/", cfg.InsightHandler.Dismiss)

		api.GET("/trends/", cfg.TrendHandler.ListTrends)
		api.POST("/trends/analyze/", cfg.TrendHandler.AnalyzeTrend)

		api.GET("/risks/", cfg.RiskHandler.ListPredictions)
		api.POST("/risks/assess/", cfg.RiskHandler.AssessRisk)
		api.POST("/risks/:id/validate/", cfg.RiskHandler.ValidatePrediction)

		api.GET("/decision-support/", cfg.DecisionHandler.ListRecommendations)
		api.POST("/decision-support/", cfg.DecisionHandler.CreateRecommendation)
		api.POST("/decision-support/:id/status/", cfg.DecisionHandler.UpdateStatus)

		api.POST("/documents/analyze/", cfg.DocumentHandler.AnalyzeDocument)
		api.POST("/communication/generate/", cfg.DocumentHandler.GenerateCommunication)

		api.GET("/processing-logs/", cfg.ProcessingLogHandler.ListLogs)

		api.GET("/metrics/", cfg.MetricsHandler.GetMetrics)
	}

	return router
}
