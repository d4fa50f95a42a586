package models

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

// MaxPhotoBytes bounds the decoded photo size.
const MaxPhotoBytes = 512 * 1024

var acceptedPhotoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Profile is what the profile page shows.
type Profile struct {
	UID         id.UserID `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
}

type PhotoStatus string

const (
	PhotoUnchanged PhotoStatus = "unchanged"
	PhotoStored    PhotoStatus = "stored"
	PhotoRemoved   PhotoStatus = "removed"
	// PhotoReverted means the photo could not be stored; the rest of the
	// update still stands.
	PhotoReverted PhotoStatus = "reverted"
)

const NoticePhotoNotSaved = "Your name was updated, but the photo could not be saved."

// UpdateResult carries both phases of an update: the profile as applied
// before the photo is stored, and the profile once it is.
type UpdateResult struct {
	Provisional Profile     `json:"provisional"`
	Confirmed   Profile     `json:"confirmed"`
	PhotoStatus PhotoStatus `json:"photoStatus"`
	Notice      string      `json:"notice,omitempty"`
}

// UpdateRequest renames the account and optionally replaces or removes the photo.
// Photo is a data URL.
type UpdateRequest struct {
	DisplayName string  `json:"displayName"`
	Photo       *string `json:"photo,omitempty"`
	RemovePhoto bool    `json:"removePhoto,omitempty"`
}

func (r *UpdateRequest) Normalize() {
	if r == nil {
		return
	}
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if r.Photo != nil {
		p := strings.TrimSpace(*r.Photo)
		r.Photo = &p
	}
}

func (r *UpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := identity.ValidateDisplayName(r.DisplayName); err != nil {
		return err
	}
	if r.Photo != nil && r.RemovePhoto {
		return dErrors.New(dErrors.CodeValidation, "photo and removePhoto cannot both be set")
	}
	if r.Photo != nil {
		if _, err := ParsePhoto(*r.Photo); err != nil {
			return err
		}
	}
	return nil
}

// ParsePhoto checks a data URL and returns the decoded image. The declared
// type must agree with the sniffed content.
func ParsePhoto(dataURL string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ",")
	if !ok || !strings.HasPrefix(dataURL, "data:") {
		return nil, dErrors.New(dErrors.CodeValidation, "Photo must be an image data URL.")
	}
	declared, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, dErrors.New(dErrors.CodeValidation, "Photo must be base64 encoded.")
	}
	if !acceptedPhotoTypes[declared] {
		return nil, dErrors.New(dErrors.CodeValidation, "Photo must be a PNG or JPEG image.")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoBytes+3 {
		return nil, dErrors.New(dErrors.CodeValidation, "Photo is too large.")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "Photo must be base64 encoded.")
	}
	if len(data) > MaxPhotoBytes {
		return nil, dErrors.New(dErrors.CodeValidation, "Photo is too large.")
	}
	if sniffed := http.DetectContentType(data); sniffed != declared {
		return nil, dErrors.New(dErrors.CodeValidation, "Photo content does not match its type.")
	}
	return bytes.Clone(data), nil
}
