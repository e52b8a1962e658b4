package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/app"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

// venueHeader carries the authenticated venue id, resolved upstream.
const venueHeader = "X-Venue-ID"

// ShiftAdmin is the minimal interface for the venue provisioning surface.
type ShiftAdmin interface {
	CreateShift(ctx context.Context, in app.CreateShiftInput) (domain.Shift, error)
	ListShifts(ctx context.Context, venueID string) ([]domain.Shift, error)
	CancelShift(ctx context.Context, shiftID string) (domain.Shift, error)
}

// HandleAdminShifts serves POST and GET /admin/shifts for the calling venue.
func HandleAdminShifts(svc ShiftAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venueID := r.Header.Get(venueHeader)
		if venueID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "venue id required")
			return
		}

		switch r.Method {
		case http.MethodPost:
			createShift(w, r, svc, venueID)
		case http.MethodGet:
			listShifts(w, r, svc, venueID)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleCancelShift serves POST /admin/shifts/{id}/cancel. Cancelling an
// already-cancelled shift succeeds, so client retries are harmless.
func HandleCancelShift(svc ShiftAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		shiftID, ok := parseCancelShiftPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		shift, err := svc.CancelShift(r.Context(), shiftID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toShiftResponse(shift))
	}
}

func createShift(w http.ResponseWriter, r *http.Request, svc ShiftAdmin, venueID string) {
	var req createShiftRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	shift, err := svc.CreateShift(r.Context(), app.CreateShiftInput{
		VenueID:          venueID,
		Role:             req.Role,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		RateFloorCents:   req.RateFloorCents,
		RateCeilingCents: req.RateCeilingCents,
		MaxPositions:     req.MaxPositions,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toShiftResponse(shift))
}

func listShifts(w http.ResponseWriter, r *http.Request, svc ShiftAdmin, venueID string) {
	shifts, err := svc.ListShifts(r.Context(), venueID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]shiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, toShiftResponse(shift))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func parseCancelShiftPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "admin" || parts[1] != "shifts" || parts[2] == "" || parts[3] != "cancel" {
		return "", false
	}
	return parts[2], true
}

type createShiftRequest struct {
	Role             string    `json:"role"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	RateFloorCents   int64     `json:"rate_floor_cents"`
	RateCeilingCents int64     `json:"rate_ceiling_cents"`
	MaxPositions     int       `json:"max_positions"`
}

type shiftResponse struct {
	ID               string    `json:"id"`
	Role             string    `json:"role"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	RateFloorCents   int64     `json:"rate_floor_cents"`
	RateCeilingCents int64     `json:"rate_ceiling_cents"`
	MaxPositions     int       `json:"max_positions"`
	PositionsOpen    int       `json:"positions_open"`
	Status           string    `json:"status"`
}

func toShiftResponse(shift domain.Shift) shiftResponse {
	return shiftResponse{
		ID:               shift.ID,
		Role:             shift.Role,
		StartsAt:         shift.StartsAt,
		EndsAt:           shift.EndsAt,
		RateFloorCents:   shift.RateFloorCents,
		RateCeilingCents: shift.RateCeilingCents,
		MaxPositions:     shift.MaxPositions,
		PositionsOpen:    shift.PositionsOpen,
		Status:           string(shift.Status),
	}
}
