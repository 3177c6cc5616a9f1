package main

import (
	"fmt"
	"os"

	"github.com/caresight/caresight-backend/internal/config"
	"github.com/caresight/caresight-backend/internal/db"
	"github.com/caresight/caresight-backend/internal/http/handlers"
	"github.com/caresight/caresight-backend/internal/observability"
	"github.com/caresight/caresight-backend/internal/platform/envutil"
	"github.com/caresight/caresight-backend/internal/platform/logger"
	"github.com/caresight/caresight-backend/internal/repos"
	"github.com/caresight/caresight-backend/internal/server"
	"github.com/caresight/caresight-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	aiCfg := config.LoadAI()
	if !aiCfg.Configured() {
		log.Warn("OPENAI_API_KEY not set; AI-backed endpoints will return provider errors")
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	patientRepo := repos.NewPatientRepo(thePG, log)
	visitRepo := repos.NewVisitRepo(thePG, log)
	insightRepo := repos.NewInsightRepo(thePG, log)
	trendRepo := repos.NewPatientTrendRepo(thePG, log)
	riskRepo := repos.NewRiskPredictionRepo(thePG, log)
	decisionRepo := repos.NewDecisionSupportRepo(thePG, log)
	processingLogRepo := repos.NewProcessingLogRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	metrics := observability.NewMetrics(log)
	aiClient := services.NewCompletionClient(log, aiCfg)
	provider := services.NewPatientDataProvider(thePG, log, patientRepo, visitRepo)
	insightService := services.NewInsightService(thePG, log, insightRepo, processingLogRepo, provider, aiClient, metrics)
	trendService := services.NewTrendService(thePG, log, trendRepo, processingLogRepo, provider, aiClient, metrics)
	riskService := services.NewRiskService(thePG, log, riskRepo, processingLogRepo, provider, aiClient, metrics)
	documentService := services.NewDocumentService(log, processingLogRepo, provider, aiClient, metrics)
	decisionService := services.NewDecisionSupportService(log, decisionRepo, provider)

	// Handlers
	log.Info("Setting up handlers...")
	healthHandler := handlers.NewHealthHandler()
	insightHandler := handlers.NewInsightHandler(log, insightService)
	trendHandler := handlers.NewTrendHandler(log, trendService)
	riskHandler := handlers.NewRiskHandler(log, riskService)
	decisionHandler := handlers.NewDecisionSupportHandler(log, decisionService)
	documentHandler := handlers.NewDocumentHandler(log, documentService)
	processingLogHandler := handlers.NewProcessingLogHandler(log, processingLogRepo)
	metricsHandler := handlers.NewMetricsHandler(metrics)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		Log:                  log,
		HealthHandler:        healthHandler,
		InsightHandler:       insightHandler,
		TrendHandler:         trendHandler,
		RiskHandler:          riskHandler,
		DecisionHandler:      decisionHandler,
		DocumentHandler:      documentHandler,
		ProcessingLogHandler: processingLogHandler,
		MetricsHandler:       metricsHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
