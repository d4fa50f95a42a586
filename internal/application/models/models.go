package models

import (
	"math"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

// TotalFields is the number of completion predicates a draft is scored on:
// fullName, email, country, passport upload, signature.
const TotalFields = 5

// StatusKey is the coarse application status shown to the applicant.
type StatusKey string

const (
	StatusPendingSubmission  StatusKey = "pendingSubmission"
	StatusInProgress         StatusKey = "inProgress"
	StatusSubmittedForReview StatusKey = "submittedForReview"
)

// ParseStatusKey returns the status for a stored string.
func ParseStatusKey(s string) (StatusKey, bool) {
	switch StatusKey(s) {
	case StatusPendingSubmission, StatusInProgress, StatusSubmittedForReview:
		return StatusKey(s), true
	}
	return "", false
}

func (s StatusKey) String() string { return string(s) }

// IsSubmitted reports whether the status is the absorbing submitted state.
func (s StatusKey) IsSubmitted() bool { return s == StatusSubmittedForReview }

// Fields is the full text snapshot of the application form.
type Fields struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Signature string `json:"signature"`
}

// ApplicantProfile is the derived view of a user's draft.
// PassportFileName is a display marker only; file bytes are never kept.
type ApplicantProfile struct {
	UserID           id.UserID `json:"userId"`
	Fields           Fields    `json:"fields"`
	PassportFileName *string   `json:"passportFileName"`
	ProgressPercent  int       `json:"progressPercent"`
	StatusKey        StatusKey `json:"statusKey,omitempty"`
}

// EmptyProfile is what a user with no stored draft sees.
func EmptyProfile(userID id.UserID) ApplicantProfile {
	return ApplicantProfile{
		UserID:    userID,
		StatusKey: StatusPendingSubmission,
	}
}

// HasPassport reports whether a passport file has been selected.
func HasPassport(marker *string) bool {
	return marker != nil && *marker != ""
}

func textFilled(s string) bool {
	return utf8.RuneCountInString(s) > 1
}

// FilledCount returns how many completion predicates the snapshot satisfies.
func FilledCount(fields Fields, marker *string) int {
	n := 0
	if textFilled(fields.FullName) {
		n++
	}
	if govalidator.IsEmail(fields.Email) {
		n++
	}
	if textFilled(fields.Country) {
		n++
	}
	if HasPassport(marker) {
		n++
	}
	if textFilled(fields.Signature) {
		n++
	}
	return n
}

// ComputeProgress returns round(100 * filled / total), halves rounded up.
func ComputeProgress(fields Fields, marker *string) int {
	return int(math.Round(100 * float64(FilledCount(fields, marker)) / TotalFields))
}

// DeriveStatus applies the submission-monotonic status rule.
// A submitted draft stays submitted whatever the progress. Reaching 100
// without an explicit submit is still inProgress.
func DeriveStatus(progress int, previous StatusKey) StatusKey {
	if previous.IsSubmitted() {
		return StatusSubmittedForReview
	}
	if progress <= 0 {
		return StatusPendingSubmission
	}
	return StatusInProgress
}

// ValidProgress reports whether p is a storable progress value.
func ValidProgress(p int) bool {
	return p >= 0 && p <= 100
}

// ChangeOutcome is the result of a draft mutation. Persisted is false when
// the durable write failed; Profile is still the computed state and Notice
// carries a message the caller shows without blocking the user.
type ChangeOutcome struct {
	Profile   ApplicantProfile `json:"profile"`
	Persisted bool             `json:"persisted"`
	Notice    string           `json:"notice,omitempty"`
}

// NoticeNotSaved is surfaced when the draft could not be stored.
const NoticeNotSaved = "Your draft could not be saved this time. Your changes are kept on this page and will be saved with your next edit."
