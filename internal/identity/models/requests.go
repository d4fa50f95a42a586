package models

import (
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

const (
	MinPasswordLength    = 8
	maxPasswordLength    = 72
	minDisplayNameLength = 2
	maxDisplayNameLength = 100
)

type SignUpRequest struct {
	DisplayName string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (r *SignUpRequest) Normalize() {
	if r == nil {
		return
	}
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Email = NormalizeEmail(r.Email)
}

func (r *SignUpRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email address.")
	}
	return ValidatePassword(r.Password)
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = NormalizeEmail(r.Email)
}

func (r *SignInRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Invalid email address.")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "Password is required.")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.CurrentPassword == "" {
		return dErrors.New(dErrors.CodeValidation, "Current password is required.")
	}
	if err := ValidatePassword(r.NewPassword); err != nil {
		return err
	}
	if r.NewPassword != r.ConfirmPassword {
		return dErrors.New(dErrors.CodeValidation, "Passwords don't match.")
	}
	return nil
}

// ValidateDisplayName checks the display name bounds.
func ValidateDisplayName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < minDisplayNameLength {
		return dErrors.New(dErrors.CodeValidation, "Full name must be at least 2 characters.")
	}
	if n > maxDisplayNameLength {
		return dErrors.New(dErrors.CodeValidation, "Full name is too long.")
	}
	return nil
}

// ValidatePassword enforces the length bounds. The upper bound is bcrypt's.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "Password must be at least 8 characters.")
	}
	if len(pw) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "Password is too long.")
	}
	return nil
}
