package service

import (
	"strings"
	"text/template"
)

const systemPrompt = `You are an AI assistant specialized in compliance and risk assessment for the eBhutanza e-residency programme.
Reply with a single JSON object and nothing else. The object has exactly these keys:
"riskAssessmentSummary" (string), "flaggedIssues" (array of strings),
"suggestedActions" (string) and "overallRiskLevel" (one of "low", "medium", "high").`

var userPrompt = template.Must(template.New("assessment").Parse(
	`You will receive applicant data. Analyze it for potential compliance and risk issues.

Provide a risk assessment summary, flag any specific issues, suggest actions for addressing the risks, and determine the overall risk level (low, medium, or high).

Applicant Data: {{.ApplicantData}}`))

// outputSchema checks the shape of the model's reply.
const outputSchema = `{
  "type": "object",
  "required": ["riskAssessmentSummary", "flaggedIssues", "suggestedActions", "overallRiskLevel"],
  "properties": {
    "riskAssessmentSummary": {"type": "string", "minLength": 1},
    "flaggedIssues": {"type": "array", "items": {"type": "string"}},
    "suggestedActions": {"type": "string"},
    "overallRiskLevel": {"type": "string", "enum": ["low", "medium", "high"]}
  }
}`

func renderPrompt(applicantData string) (string, error) {
	var b strings.Builder
	if err := userPrompt.Execute(&b, struct{ ApplicantData string }{applicantData}); err != nil {
		return "", err
	}
	return b.String(), nil
}
