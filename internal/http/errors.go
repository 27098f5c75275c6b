// Package httpapi exposes the register over HTTP for the operator screen.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fairyhunter13/pos-register/internal/obs"
	"github.com/fairyhunter13/pos-register/internal/queue"
	"github.com/fairyhunter13/pos-register/internal/register"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, jsonError{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger.Warn("response_encode_failed", "error", err.Error())
	}
}

// writeCommandError maps a failed or rejected command to its HTTP status.
func writeCommandError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, queue.ErrShuttingDown):
		status, code = http.StatusServiceUnavailable, "shutting_down"
	case errors.Is(err, queue.ErrBacklogFull):
		status, code = http.StatusServiceUnavailable, "register_busy"
		w.Header().Set("Retry-After", "1")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status, code = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, queue.ErrSinkFailed):
		status, code = http.StatusBadGateway, "receipt_sink_failed"
	case errors.Is(err, register.ErrQuantityOverflow):
		status, code = http.StatusBadRequest, "quantity_overflow"
	case errors.Is(err, register.ErrNotSubmittable):
		status, code = http.StatusConflict, "not_submittable"
	case errors.Is(err, register.ErrReceiptPending):
		status, code = http.StatusConflict, "receipt_pending"
	case errors.Is(err, register.ErrNoPendingReceipt):
		status, code = http.StatusConflict, "no_pending_receipt"
	}
	WriteJSONError(w, status, code, err.Error())
}

// decodeJSON reads a strict JSON body into v. It writes the error response
// itself and reports false when the request cannot be used.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}
