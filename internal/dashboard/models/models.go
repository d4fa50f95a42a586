package models

import (
	application "github.com/nova19-exe/eBhutanza/internal/application/models"
)

// QuickAction is a shortcut tile on the dashboard.
type QuickAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
	Available   bool   `json:"available"`
}

const (
	ActionApplication   = "application"
	ActionCompliance    = "compliance"
	ActionIncorporation = "incorporation"
)

// Summary is everything the dashboard page renders.
type Summary struct {
	WelcomeName        string                `json:"welcomeName"`
	ProgressPercent    int                   `json:"progressPercent"`
	StatusKey          application.StatusKey `json:"statusKey"`
	QuickActions       []QuickAction         `json:"quickActions"`
	IncorporationCount int                   `json:"incorporationCount"`
}

// QuickActionsFor lists the dashboard actions. Incorporation opens up once
// the application has been submitted.
func QuickActionsFor(status application.StatusKey) []QuickAction {
	return []QuickAction{
		{
			ID:          ActionApplication,
			Title:       "E-Residency Application",
			Description: "Continue or review your e-residency application.",
			Href:        "/dashboard/application",
			Available:   true,
		},
		{
			ID:          ActionCompliance,
			Title:       "AI Compliance Check",
			Description: "Identify and address potential compliance issues before submission.",
			Href:        "/dashboard/compliance",
			Available:   true,
		},
		{
			ID:          ActionIncorporation,
			Title:       "Business Incorporation",
			Description: "Register your new company once your e-residency application is submitted.",
			Href:        "/dashboard/incorporation",
			Available:   status.IsSubmitted(),
		},
	}
}
