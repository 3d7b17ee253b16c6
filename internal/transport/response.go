package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/maerl/reporting/internal/domain/errs"
)

const maxBodyBytes = 1 << 20

// Response is the envelope of every JSON response.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a failed request.
type Error struct {
	Kind    errs.Kind `json:"kind,omitempty"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	// Partial is set when a compound write committed its parent row.
	Partial   bool `json:"partial,omitempty"`
	Committed any  `json:"committed,omitempty"`
}

// DecodeBody decodes a JSON request body into dst, rejecting unknown fields.
func DecodeBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errs.Invalid("body"), err)
	}
	return nil
}

// WriteData writes a success response.
func WriteData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data})
}

// WriteError maps err to a status code and writes it. Store messages are
// passed through unchanged.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, body := describeError(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "kind", body.Kind, "error", err)
	}
	writeJSON(w, status, Response{Error: body})
}

func describeError(err error) (int, *Error) {
	body := &Error{Kind: errs.KindOf(err), Message: err.Error()}

	var pw *errs.PartialWriteError
	if errors.As(err, &pw) {
		body.Partial = true
		body.Committed = pw.Committed
		return http.StatusInternalServerError, body
	}

	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
		return http.StatusBadRequest, body
	}
	if errors.Is(err, errs.ErrNotFound) {
		return http.StatusNotFound, body
	}
	return http.StatusInternalServerError, body
}

func writeJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
