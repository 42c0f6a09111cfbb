package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// writeJSON encodes v into a buffer before touching w, so a value that
// cannot be encoded turns into a logged 500 instead of an empty 2xx.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response", "status", status, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal_error","message":"internal server error"}}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// errBodyTooLarge marks a body cut off by the max-body-size middleware.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSON reads a single JSON object from the request body into dst.
// Malformed JSON is reported as domain.ErrInvalidInput.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errBodyTooLarge
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
		default:
			return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
		}
	}
	return nil
}

// writeDecodeError answers a failed decodeJSON.
func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("body_too_large", err.Error()))
		return
	}
	s.writeError(w, r, err, "")
}
