package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/app"
)

// DemandReader is the minimal interface for the worker browse surface.
type DemandReader interface {
	Browse(ctx context.Context) ([]app.ShiftQuote, error)
	Read(ctx context.Context, shiftID string) (app.DemandSignals, error)
}

// HandleBrowseShifts returns the open-shift feed with current advisory
// quotes. The displayed rate is never a promise; it is locked only when the
// worker applies.
func HandleBrowseShifts(svc DemandReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		quotes, err := svc.Browse(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]shiftQuoteResponse, 0, len(quotes))
		for _, q := range quotes {
			out = append(out, shiftQuoteResponse{
				ShiftID:         q.Shift.ID,
				Role:            q.Shift.Role,
				StartsAt:        q.Shift.StartsAt,
				EndsAt:          q.Shift.EndsAt,
				PositionsOpen:   q.Shift.PositionsOpen,
				WorkerRateCents: q.Quote.WorkerRateCents,
				SurgeMultiplier: q.Quote.SurgeMultiplier,
				Rationale:       q.Quote.Rationale,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// HandleShiftDemand exposes the raw demand signals for one shift.
func HandleShiftDemand(svc DemandReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		shiftID, ok := parseShiftDemandPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		signals, err := svc.Read(r.Context(), shiftID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(demandResponse{
			PendingCount:  signals.PendingCount,
			AcceptedCount: signals.AcceptedCount,
			PositionsOpen: signals.PositionsOpen,
			MaxPositions:  signals.MaxPositions,
			HoursToStart:  signals.HoursToStart,
		})
	}
}

func parseShiftDemandPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "shifts" || parts[2] != "demand" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type shiftQuoteResponse struct {
	ShiftID         string    `json:"shift_id"`
	Role            string    `json:"role"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	PositionsOpen   int       `json:"positions_open"`
	WorkerRateCents int64     `json:"worker_rate_cents"`
	SurgeMultiplier float64   `json:"surge_multiplier"`
	Rationale       []string  `json:"rationale"`
}

type demandResponse struct {
	PendingCount  int      `json:"pending_count"`
	AcceptedCount int      `json:"accepted_count"`
	PositionsOpen int      `json:"positions_open"`
	MaxPositions  int      `json:"max_positions"`
	HoursToStart  *float64 `json:"hours_to_start"`
}
