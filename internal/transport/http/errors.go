package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeInvalidDirection     = "invalid_swipe_direction"
	codeInvalidRateRange     = "invalid_rate_range"
	codeInvalidPositions     = "invalid_positions"
	codeInvalidShiftWindow   = "invalid_shift_window"
	codeRoleRequired         = "role_required"
	codeShiftNotFound        = "shift_not_found"
	codeShiftNotOpen         = "shift_not_open"
	codeApplicationNotFound  = "application_not_found"
	codeAlreadyReviewed      = "application_already_reviewed"
	codeNoPositions          = "no_positions_available"
	codeDuplicateSwipe       = "duplicate_swipe"
	codeDuplicateApplication = "duplicate_application"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the core error taxonomy onto HTTP statuses. Conflict
// errors are expected concurrency outcomes, not system failures.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidSwipeDirection):
		writeError(w, http.StatusBadRequest, codeInvalidDirection, err.Error())
	case errors.Is(err, domain.ErrInvalidRateRange):
		writeError(w, http.StatusBadRequest, codeInvalidRateRange, err.Error())
	case errors.Is(err, domain.ErrInvalidPositions):
		writeError(w, http.StatusBadRequest, codeInvalidPositions, err.Error())
	case errors.Is(err, domain.ErrInvalidShiftWindow):
		writeError(w, http.StatusBadRequest, codeInvalidShiftWindow, err.Error())
	case errors.Is(err, domain.ErrRoleRequired):
		writeError(w, http.StatusBadRequest, codeRoleRequired, err.Error())
	case errors.Is(err, domain.ErrShiftNotFound):
		writeError(w, http.StatusNotFound, codeShiftNotFound, err.Error())
	case errors.Is(err, domain.ErrApplicationNotFound):
		writeError(w, http.StatusNotFound, codeApplicationNotFound, err.Error())
	case errors.Is(err, domain.ErrShiftNotOpen):
		writeError(w, http.StatusConflict, codeShiftNotOpen, err.Error())
	case errors.Is(err, domain.ErrApplicationAlreadyReviewed):
		writeError(w, http.StatusConflict, codeAlreadyReviewed, err.Error())
	case errors.Is(err, domain.ErrNoPositionsAvailable):
		writeError(w, http.StatusConflict, codeNoPositions, err.Error())
	case errors.Is(err, domain.ErrDuplicateSwipe):
		writeError(w, http.StatusConflict, codeDuplicateSwipe, err.Error())
	case errors.Is(err, domain.ErrDuplicateApplication):
		writeError(w, http.StatusConflict, codeDuplicateApplication, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
