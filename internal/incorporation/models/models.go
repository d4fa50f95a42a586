package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

type CompanyType string

const (
	CompanyPrivateLimited     CompanyType = "private_limited"
	CompanyPublicLimited      CompanyType = "public_limited"
	CompanySoleProprietorship CompanyType = "sole_proprietorship"
	CompanyPartnership        CompanyType = "partnership"
)

func (c CompanyType) Valid() bool {
	switch c {
	case CompanyPrivateLimited, CompanyPublicLimited, CompanySoleProprietorship, CompanyPartnership:
		return true
	}
	return false
}

// Status of a request as tracked by the portal.
type Status string

const StatusSubmitted Status = "submitted"

// Request is a business incorporation request.
type Request struct {
	ID               id.IncorporationID `json:"id"`
	UserID           id.UserID          `json:"userId"`
	CompanyName      string             `json:"companyName"`
	CompanyType      CompanyType        `json:"companyType"`
	BusinessActivity string             `json:"businessActivity"`
	Status           Status             `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// ConfirmationMessage is shown after a successful request.
func ConfirmationMessage(companyName string) string {
	return fmt.Sprintf("Your request to incorporate \"%s\" has been submitted to the Bhutanese Company Registry.", companyName)
}

// Result is returned when a request is accepted.
type Result struct {
	Request   *Request `json:"request"`
	Message   string   `json:"message"`
	Published bool     `json:"published"`
}

// RegistryEvent is what the company registry consumes.
type RegistryEvent struct {
	Type    string   `json:"type"`
	Request *Request `json:"request"`
}

const EventIncorporationRequested = "incorporation.requested"

type CreateRequest struct {
	CompanyName      string      `json:"companyName"`
	CompanyType      CompanyType `json:"companyType"`
	BusinessActivity string      `json:"businessActivity"`
}

func (r *CreateRequest) Normalize() {
	if r == nil {
		return
	}
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.BusinessActivity = strings.TrimSpace(r.BusinessActivity)
	r.CompanyType = CompanyType(strings.TrimSpace(string(r.CompanyType)))
}

func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if utf8.RuneCountInString(r.CompanyName) < 3 {
		return dErrors.New(dErrors.CodeValidation, "Company name must be at least 3 characters.")
	}
	if utf8.RuneCountInString(r.CompanyName) > 200 {
		return dErrors.New(dErrors.CodeValidation, "Company name is too long.")
	}
	if !r.CompanyType.Valid() {
		return dErrors.New(dErrors.CodeValidation, "Please select a company type.")
	}
	if utf8.RuneCountInString(r.BusinessActivity) < 10 {
		return dErrors.New(dErrors.CodeValidation, "Business activity must be at least 10 characters.")
	}
	if utf8.RuneCountInString(r.BusinessActivity) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "Business activity is too long.")
	}
	return nil
}
