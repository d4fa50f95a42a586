package audit

import (
	"context"
	"time"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// account creation and deletion, application submission.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers sign-in failures, sign-outs and password changes.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    id.UserID     `json:"userId"`
	Subject   string        `json:"subject,omitempty"`
	Action    string        `json:"action"`
	Reason    string        `json:"reason,omitempty"`
	Email     string        `json:"email,omitempty"`
	RequestID string        `json:"requestId,omitempty"`
}

type AuditEvent string

const (
	EventUserCreated     AuditEvent = "user_created"
	EventUserSignedIn    AuditEvent = "user_signed_in"
	EventUserSignedOut   AuditEvent = "user_signed_out"
	EventAuthFailed      AuditEvent = "auth_failed"
	EventPasswordChanged AuditEvent = "password_changed"
	EventUserDeleted     AuditEvent = "user_deleted"
	EventDataExported    AuditEvent = "data_exported"
	EventProfileUpdated  AuditEvent = "profile_updated"

	EventDraftSubmitted AuditEvent = "draft_submitted"
	EventDraftReset     AuditEvent = "draft_reset"
	EventDraftMigrated  AuditEvent = "draft_migrated"

	EventIncorporationRequested AuditEvent = "incorporation_requested"
	EventComplianceAssessed     AuditEvent = "compliance_assessed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserCreated:            CategoryCompliance,
	EventUserDeleted:            CategoryCompliance,
	EventDataExported:           CategoryCompliance,
	EventDraftSubmitted:         CategoryCompliance,
	EventIncorporationRequested: CategoryCompliance,
	EventComplianceAssessed:     CategoryCompliance,

	EventAuthFailed:      CategorySecurity,
	EventUserSignedOut:   CategorySecurity,
	EventPasswordChanged: CategorySecurity,

	EventUserSignedIn:   CategoryOperations,
	EventProfileUpdated: CategoryOperations,
	EventDraftReset:     CategoryOperations,
	EventDraftMigrated:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
