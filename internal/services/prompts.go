package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt builders are pure: structured input in, (system, user) strings out.
// They never touch the network, so prompt content is testable without a model.

func mustJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

func promptPatientSummary(patientData map[string]any) (system string, user string) {
	system = `You are a healthcare AI assistant specializing in clinical analysis.
Analyze the provided patient data and generate a comprehensive summary with actionable insights.
Focus on:
1. Current health status and trends
2. Risk factors and potential concerns
3. Medication interactions or issues
4. Care gaps or documentation needs
5. Recommendations for healthcare providers

Format your response as structured JSON with the following sections:
- summary: Brief overall summary
- key_findings: List of important findings
- risk_factors: Identified risk factors
- recommendations: Actionable recommendations
- urgency_level: immediate, within_24h, within_week, or routine`
	user = "Analyze this patient data:\n\n" +
		"Patient Information: " + mustJSON(patientData) + "\n\n" +
		"Provide insights focusing on clinical significance and actionable recommendations."
	return system, user
}

func promptVisitNotes(visitNotes string, patientContext map[string]any) (system string, user string) {
	system = `You are a clinical documentation AI assistant.
Analyze visit notes in the context of patient history and extract:
1. Key clinical findings and changes
2. Progress towards care goals
3. New concerns or symptoms
4. Medication adherence and effectiveness
5. Documentation completeness for billing/compliance
6. Suggestions for follow-up care

Return structured analysis focusing on actionable insights.`
	user = "Visit Notes: " + visitNotes + "\n\n" +
		"Patient Context: " + mustJSON(patientContext) + "\n\n" +
		"Analyze these notes and provide clinical insights."
	return system, user
}

func promptCareGaps(patientData map[string]any, oasisData map[string]any) (system string, user string) {
	system = `You are a healthcare quality assurance AI.
Analyze patient data to identify potential care gaps including:
1. Missing assessments or screenings
2. Overdue follow-ups or referrals
3. Incomplete medication management
4. Missed preventive care opportunities
5. Documentation deficiencies
6. OASIS compliance issues (if applicable)

Prioritize gaps by clinical significance and regulatory requirements.`
	if oasisData == nil {
		oasisData = map[string]any{}
	}
	user = "Patient Data: " + mustJSON(patientData) + "\n\n" +
		"OASIS Data: " + mustJSON(oasisData) + "\n\n" +
		"Identify care gaps and provide recommendations."
	return system, user
}

func promptFallRisk(factors map[string]any) (system string, user string) {
	system = `You are a clinical risk assessment AI specializing in fall risk prediction.
Analyze the provided patient factors and return a fall risk assessment.

Consider factors like:
- Age and mobility status
- Medications that increase fall risk
- Previous falls history
- Cognitive status
- Environmental factors
- Comorbidities

Return a JSON response with:
- risk_score: float between 0-1 (1 = highest risk)
- risk_category: low, moderate, high, or critical
- contributing_factors: list of factors increasing risk
- protective_factors: list of factors reducing risk
- recommendations: prevention strategies`
	user = "Assess fall risk for patient with these factors: " + mustJSON(factors)
	return system, user
}

func promptReadmissionRisk(patientData map[string]any, recentAdmissions []map[string]any) (system string, user string) {
	system = `You are a readmission risk prediction AI. Analyze patient data to predict
30-day readmission risk based on clinical indicators, social determinants, and historical patterns.

Key factors to consider:
- Primary diagnosis and comorbidities
- Previous admission patterns
- Medication complexity
- Social support and compliance
- Discharge planning adequacy
- Follow-up care arrangements

Return a JSON response with:
- risk_score: float between 0-1 (1 = highest risk)
- risk_category: low, moderate, high, or critical
- contributing_factors: list of factors increasing risk
- protective_factors: list of factors reducing risk
- recommendations: prevention strategies`
	context := map[string]any{
		"patient_data":      patientData,
		"recent_admissions": recentAdmissions,
	}
	user = "Assess readmission risk: " + mustJSON(context)
	return system, user
}

func promptTrendInterpretation(metricName string, days int, trendData map[string]any) (system string, user string) {
	system = fmt.Sprintf(`You are a clinical data analyst AI. Analyze the trend in %s
over the past %d days and provide clinical interpretation.

Consider:
- Clinical significance of the trend
- Normal ranges for this metric
- Potential causes for changes
- Recommendations for monitoring or intervention

Return analysis focusing on clinical implications.`, metricName, days)
	user = "Analyze this clinical trend: " + mustJSON(trendData)
	return system, user
}

func promptDocumentExtraction(documentText string, documentType string) (system string, user string) {
	system = fmt.Sprintf(`You are a clinical document analysis AI. Extract structured data from
%s documents. Focus on:

1. Patient demographics
2. Diagnoses and conditions
3. Medications and dosages
4. Vital signs and measurements
5. Procedures and treatments
6. Assessment findings
7. Plan of care

Return structured JSON data with extracted information clearly categorized.`, documentType)
	user = fmt.Sprintf("Extract clinical data from this %s:\n\n%s", documentType, documentText)
	return system, user
}

func promptProviderCommunication(patientData map[string]any, concerns []string, date string) (system string, user string) {
	system = `You are a healthcare communication AI assistant. Generate clear,
professional communication for primary care providers based on patient data and concerns.

Include:
1. Brief patient summary
2. Specific concerns or changes
3. Current status and trends
4. Recommendations or questions
5. Urgency level

Use professional medical terminology while being concise and actionable.`
	communication := map[string]any{
		"patient_summary":       patientData,
		"specific_concerns":     concerns,
		"date_of_communication": date,
	}
	user = "Generate provider communication for:\n" + mustJSON(communication) + "\n\n" +
		"Format as professional clinical communication."
	return system, user
}

// ExtractFallRiskFactors filters patient data down to the factors relevant to
// fall risk before prompting.
func ExtractFallRiskFactors(patientData map[string]any) map[string]any {
	factors := map[string]any{}

	if age, ok := patientData["age"]; ok {
		factors["age"] = age
	}

	if meds, ok := patientData["medications"].([]map[string]any); ok {
		factors["fall_risk_medications"] = filterFallRiskMeds(meds)
	} else if medsAny, ok := patientData["medications"].([]any); ok {
		meds := make([]map[string]any, 0, len(medsAny))
		for _, m := range medsAny {
			if mm, ok := m.(map[string]any); ok {
				meds = append(meds, mm)
			}
		}
		factors["fall_risk_medications"] = filterFallRiskMeds(meds)
	}

	if mobility, ok := patientData["functional_status"]; ok {
		factors["mobility"] = mobility
	}

	if history, ok := patientData["history"].(map[string]any); ok {
		if falls, ok := history["falls"]; ok {
			factors["fall_history"] = falls
		}
	}

	return factors
}

var fallRiskMedClasses = []string{"sedative", "hypnotic", "antipsychotic", "benzodiazepine"}

func filterFallRiskMeds(meds []map[string]any) []map[string]any {
	risky := []map[string]any{}
	for _, med := range meds {
		name, _ := med["name"].(string)
		name = strings.ToLower(name)
		for _, class := range fallRiskMedClasses {
			if strings.Contains(name, class) {
				risky = append(risky, med)
				break
			}
		}
	}
	return risky
}
