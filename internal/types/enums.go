package types

// Insight classification.
const (
	InsightTypeRiskAssessment          = "risk_assessment"
	InsightTypeTrendAnalysis           = "trend_analysis"
	InsightTypeAnomalyDetection        = "anomaly_detection"
	InsightTypeMedicationInteraction   = "medication_interaction"
	InsightTypeCareGap                 = "care_gap"
	InsightTypeDocumentationSuggestion = "documentation_suggestion"
	InsightTypeProviderCommunication   = "provider_communication"
	InsightTypeQualityIndicator        = "quality_indicator"
)

// Risk levels, shared by insights and risk predictions.
const (
	RiskLevelLow      = "low"
	RiskLevelModerate = "moderate"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
)

// Urgency levels. Orthogonal to risk level.
const (
	UrgencyImmediate  = "immediate"
	UrgencyWithin24h  = "within_24h"
	UrgencyWithinWeek = "within_week"
	UrgencyNextVisit  = "next_visit"
	UrgencyRoutine    = "routine"
)

// Insight review lifecycle.
const (
	InsightStatusNew       = "new"
	InsightStatusReviewed  = "reviewed"
	InsightStatusActedUpon = "acted_upon"
	InsightStatusDismissed = "dismissed"
	InsightStatusResolved  = "resolved"
)

// Trend directions.
const (
	TrendImproving   = "improving"
	TrendStable      = "stable"
	TrendDeclining   = "declining"
	TrendFluctuating = "fluctuating"
)

// Trend metric categories.
const (
	MetricCategoryVitalSigns          = "vital_signs"
	MetricCategoryFunctionalStatus    = "functional_status"
	MetricCategoryPainLevels          = "pain_levels"
	MetricCategoryMedicationAdherence = "medication_adherence"
	MetricCategoryMobility            = "mobility"
	MetricCategoryCognitiveStatus     = "cognitive_status"
	MetricCategoryWoundHealing        = "wound_healing"
	MetricCategoryLabValues           = "lab_values"
)

// Risk prediction kinds.
const (
	RiskTypeFall                   = "fall_risk"
	RiskTypeReadmission            = "readmission_risk"
	RiskTypeDeterioration          = "deterioration_risk"
	RiskTypeMedicationAdverseEvent = "medication_adverse_event"
	RiskTypeInfection              = "infection_risk"
	RiskTypeMortality              = "mortality_risk"
	RiskTypeNonAdherence           = "non_adherence_risk"
)

// Decision support.
const (
	SupportTypeMedicationAdjustment       = "medication_adjustment"
	SupportTypeCarePlanModification       = "care_plan_modification"
	SupportTypeReferralRecommendation     = "referral_recommendation"
	SupportTypeDiagnosticSuggestion       = "diagnostic_suggestion"
	SupportTypeInterventionRecommendation = "intervention_recommendation"
	SupportTypeMonitoringFrequency        = "monitoring_frequency"

	EvidenceLevelHigh          = "high"
	EvidenceLevelModerate      = "moderate"
	EvidenceLevelLow           = "low"
	EvidenceLevelExpertOpinion = "expert_opinion"

	SupportStatusPending     = "pending"
	SupportStatusApproved    = "approved"
	SupportStatusImplemented = "implemented"
	SupportStatusDeclined    = "declined"
	SupportStatusModified    = "modified"
)

// AI processing log process types.
const (
	ProcessTypeInsightGeneration = "insight_generation"
	ProcessTypeRiskAssessment    = "risk_assessment"
	ProcessTypeTrendAnalysis     = "trend_analysis"
	ProcessTypeDecisionSupport   = "decision_support"
	ProcessTypeDocumentAnalysis  = "document_analysis"
	ProcessTypeDataExtraction    = "data_extraction"
)
