package services

import (
	"encoding/json"
	"strings"

	"github.com/caresight/caresight-backend/internal/types"
)

// Model output normalization. Every call site that parses completion text goes
// through here so fallback semantics are uniform instead of ad hoc per caller.

// NormalizeJSON parses completion text expected to be a JSON object. On parse
// failure the raw text is preserved under "raw_analysis"; it never fails.
func NormalizeJSON(text string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return map[string]any{"raw_analysis": text}
	}
	return obj
}

// ExtractRiskScore reads "risk_score" out of JSON completion text. Malformed
// text or a missing/non-numeric field yields (0.0, empty map); callers never
// see a parse error.
func ExtractRiskScore(text string) (float64, map[string]any) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return 0.0, map[string]any{}
	}
	score, ok := obj["risk_score"].(float64)
	if !ok {
		return 0.0, obj
	}
	return score, obj
}

// ClinicalSignificance classifies free-text model output by trigger words.
// This is a lexical heuristic, not semantic analysis; treat it as approximate.
func ClinicalSignificance(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "significant") || strings.Contains(lower, "concerning") {
		return types.RiskLevelHigh
	}
	if strings.Contains(lower, "moderate") || strings.Contains(lower, "notable") {
		return types.RiskLevelModerate
	}
	return types.RiskLevelLow
}

// RiskCategoryFromScore derives a category when the model omits one.
func RiskCategoryFromScore(score float64) string {
	switch {
	case score >= 0.9:
		return types.RiskLevelCritical
	case score >= 0.7:
		return types.RiskLevelHigh
	case score >= 0.4:
		return types.RiskLevelModerate
	default:
		return types.RiskLevelLow
	}
}
