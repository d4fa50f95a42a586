package models

import (
	"time"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	incorporation "github.com/nova19-exe/eBhutanza/internal/incorporation/models"
	profile "github.com/nova19-exe/eBhutanza/internal/profile/models"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageDzongkha Language = "dz"
)

// Preferences are a user's settings-page choices.
type Preferences struct {
	Theme              Theme    `json:"theme"`
	Language           Language `json:"language"`
	ApplicationUpdates bool     `json:"applicationUpdates"`
	PromotionalEmails  bool     `json:"promotionalEmails"`
	TwoFactorEnabled   bool     `json:"twoFactorEnabled"`
}

// DefaultPreferences apply to users who never saved any.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              ThemeDark,
		Language:           LanguageEnglish,
		ApplicationUpdates: true,
	}
}

// UpdatePreferencesRequest changes only the fields that are present.
type UpdatePreferencesRequest struct {
	Theme              *Theme    `json:"theme"`
	Language           *Language `json:"language"`
	ApplicationUpdates *bool     `json:"applicationUpdates"`
	PromotionalEmails  *bool     `json:"promotionalEmails"`
	TwoFactorEnabled   *bool     `json:"twoFactorEnabled"`
}

func (r *UpdatePreferencesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Theme != nil && *r.Theme != ThemeDark && *r.Theme != ThemeLight {
		return dErrors.New(dErrors.CodeValidation, "theme must be dark or light")
	}
	if r.Language != nil && *r.Language != LanguageEnglish && *r.Language != LanguageDzongkha {
		return dErrors.New(dErrors.CodeValidation, "language must be en or dz")
	}
	return nil
}

// Apply returns p with the request's fields applied.
func (r *UpdatePreferencesRequest) Apply(p Preferences) Preferences {
	if r.Theme != nil {
		p.Theme = *r.Theme
	}
	if r.Language != nil {
		p.Language = *r.Language
	}
	if r.ApplicationUpdates != nil {
		p.ApplicationUpdates = *r.ApplicationUpdates
	}
	if r.PromotionalEmails != nil {
		p.PromotionalEmails = *r.PromotionalEmails
	}
	if r.TwoFactorEnabled != nil {
		p.TwoFactorEnabled = *r.TwoFactorEnabled
	}
	return p
}

// Export is the downloadable copy of everything held about a user.
type Export struct {
	ExportedAt     time.Time                    `json:"exportedAt"`
	User           identity.PublicUser          `json:"user"`
	Application    application.ApplicantProfile `json:"application"`
	Preferences    Preferences                  `json:"preferences"`
	Incorporations []*incorporation.Request     `json:"incorporations"`
	Profile        *profile.Profile             `json:"profile,omitempty"`
}

// ChangePasswordRequest is identity's request, accepted on the settings page.
type ChangePasswordRequest = identity.ChangePasswordRequest
