// Package httputil holds the JSON request/response helpers shared by handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status and the error envelope. Internal errors
// never leak their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, dErrors.HTTPStatus(code), resp)
}

// Validatable is implemented by request bodies.
type Validatable interface {
	Validate() error
}

type normalizer interface {
	Normalize()
}

// DecodeAndPrepare decodes the body into T, normalizes it when T supports it
// and validates it. On failure it writes the error response and returns ok=false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := decode(r, &req); err != nil {
		logWarn(ctx, logger, requestID, "invalid request body", err)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	p := PT(&req)
	if n, ok := any(p).(normalizer); ok {
		n.Normalize()
	}
	if err := p.Validate(); err != nil {
		logWarn(ctx, logger, requestID, "request validation failed", err)
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			err = dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

func logWarn(ctx context.Context, logger *slog.Logger, requestID, msg string, err error) {
	if logger == nil {
		return
	}
	logger.WarnContext(ctx, msg,
		"request_id", requestID,
		"error", err,
	)
}
