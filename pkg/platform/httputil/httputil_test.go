package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("plain error is treated as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("disk full"))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		if strings.Contains(w.Body.String(), "disk full") {
			t.Fatalf("internal error text leaked: %s", w.Body.String())
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (r *nameRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *nameRequest) Validate() error {
	if len(r.Name) < 3 {
		return dErrors.New(dErrors.CodeValidation, "name must be at least 3 characters")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("normalizes and validates", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"  Druk  "}`))
		w := httptest.NewRecorder()
		req, ok := DecodeAndPrepare[nameRequest](w, r, nil, r.Context(), "req-1")
		if !ok {
			t.Fatalf("expected ok, got response %s", w.Body.String())
		}
		if req.Name != "Druk" {
			t.Fatalf("expected trimmed name, got %q", req.Name)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{`))
		w := httptest.NewRecorder()
		if _, ok := DecodeAndPrepare[nameRequest](w, r, nil, r.Context(), "req-1"); ok {
			t.Fatalf("expected failure")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("writes validation error", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"ab"}`))
		w := httptest.NewRecorder()
		if _, ok := DecodeAndPrepare[nameRequest](w, r, nil, r.Context(), "req-1"); ok {
			t.Fatalf("expected failure")
		}
		var body map[string]string
		_ = json.NewDecoder(w.Body).Decode(&body)
		if body["error"] != "validation_error" {
			t.Fatalf("expected validation_error, got %q", body["error"])
		}
	})
}
