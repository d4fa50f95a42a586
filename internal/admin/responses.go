package admin

import (
	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
)

// AuditListResponse is the audit trail of one user.
type AuditListResponse struct {
	Events []audit.Event `json:"events"`
	Total  int           `json:"total"`
}

// DraftResponse is a user's draft as an operator sees it.
type DraftResponse struct {
	Draft application.ApplicantProfile `json:"draft"`
}

// MigrationResponse reports whether the legacy draft was claimed.
type MigrationResponse struct {
	Migrated bool `json:"migrated"`
}
