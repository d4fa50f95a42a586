package models

import (
	"strings"
	"unicode/utf8"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

const (
	MinApplicantDataLength = 50
	maxApplicantDataLength = 20000
)

// MessageAssessmentFailed is the only error text the assessment ever shows.
const MessageAssessmentFailed = "An error occurred during the assessment. Please try again."

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AssessRequest carries the free-text applicant description.
type AssessRequest struct {
	ApplicantData string `json:"applicantData"`
}

func (r *AssessRequest) Normalize() {
	if r != nil {
		r.ApplicantData = strings.TrimSpace(r.ApplicantData)
	}
}

func (r *AssessRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	n := utf8.RuneCountInString(r.ApplicantData)
	if n < MinApplicantDataLength {
		return dErrors.New(dErrors.CodeValidation, "Applicant data must be at least 50 characters.")
	}
	if n > maxApplicantDataLength {
		return dErrors.New(dErrors.CodeValidation, "Applicant data is too long.")
	}
	return nil
}

// Assessment is the model's structured verdict.
type Assessment struct {
	RiskAssessmentSummary string    `json:"riskAssessmentSummary"`
	FlaggedIssues         []string  `json:"flaggedIssues"`
	SuggestedActions      string    `json:"suggestedActions"`
	OverallRiskLevel      RiskLevel `json:"overallRiskLevel"`
}
