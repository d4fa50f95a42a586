package models

import (
	"strings"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

const maxFieldLength = 512

// RecordChangeRequest carries the complete current form snapshot.
type RecordChangeRequest struct {
	FullName         string  `json:"fullName"`
	Email            string  `json:"email"`
	Country          string  `json:"country"`
	Signature        string  `json:"signature"`
	PassportFileName *string `json:"passportFileName"`
}

func (r *RecordChangeRequest) Normalize() {
	if r == nil {
		return
	}
	if r.PassportFileName != nil {
		name := strings.TrimSpace(*r.PassportFileName)
		if name == "" {
			r.PassportFileName = nil
		} else {
			r.PassportFileName = &name
		}
	}
}

// Validate only bounds sizes. Field-level completeness is reflected in
// progress, never rejected, so a half-filled form still saves.
func (r *RecordChangeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for name, v := range map[string]string{
		"fullName":  r.FullName,
		"email":     r.Email,
		"country":   r.Country,
		"signature": r.Signature,
	} {
		if len(v) > maxFieldLength {
			return dErrors.New(dErrors.CodeValidation, name+" is too long")
		}
	}
	if r.PassportFileName != nil && len(*r.PassportFileName) > 255 {
		return dErrors.New(dErrors.CodeValidation, "passportFileName is too long")
	}
	return nil
}

func (r *RecordChangeRequest) Fields() Fields {
	return Fields{
		FullName:  r.FullName,
		Email:     r.Email,
		Country:   r.Country,
		Signature: r.Signature,
	}
}

// SubmitRequest carries the snapshot at the moment of submission.
type SubmitRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Signature string `json:"signature"`
}

func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for name, v := range map[string]string{
		"fullName":  r.FullName,
		"email":     r.Email,
		"country":   r.Country,
		"signature": r.Signature,
	} {
		if len(v) > maxFieldLength {
			return dErrors.New(dErrors.CodeValidation, name+" is too long")
		}
	}
	return nil
}

func (r *SubmitRequest) Fields() Fields {
	return Fields{
		FullName:  r.FullName,
		Email:     r.Email,
		Country:   r.Country,
		Signature: r.Signature,
	}
}
