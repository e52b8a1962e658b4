package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/app"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

// workerHeader carries the authenticated worker id, resolved by the identity
// collaborator in front of this service.
const workerHeader = "X-Worker-ID"

// SwipeRecorder is the minimal interface needed to record a swipe.
type SwipeRecorder interface {
	Record(ctx context.Context, in app.RecordSwipeInput) (domain.Swipe, error)
}

// HandleRecordSwipe persists a worker gesture. A duplicate swipe returns 409
// with the original decision so the client can surface it.
func HandleRecordSwipe(svc SwipeRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		workerID := r.Header.Get(workerHeader)
		if workerID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "worker id required")
			return
		}

		var req recordSwipeRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		swipe, err := svc.Record(r.Context(), app.RecordSwipeInput{
			WorkerID:  workerID,
			ShiftID:   req.ShiftID,
			Direction: domain.SwipeDirection(req.Direction),
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicateSwipe) {
			writeDomainError(w, err)
			return
		}

		resp := swipeResponse{
			ID:              swipe.ID,
			ShiftID:         swipe.ShiftID,
			Direction:       string(swipe.Direction),
			QuotedRateCents: swipe.QuotedRateCents,
			QuotedRationale: swipe.QuotedRationale,
			CreatedAt:       swipe.CreatedAt,
		}

		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, domain.ErrDuplicateSwipe) {
			resp.AlreadyDecided = true
			w.WriteHeader(http.StatusConflict)
		} else {
			w.WriteHeader(http.StatusCreated)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type recordSwipeRequest struct {
	ShiftID   string `json:"shift_id"`
	Direction string `json:"direction"`
}

type swipeResponse struct {
	ID              string    `json:"id"`
	ShiftID         string    `json:"shift_id"`
	Direction       string    `json:"direction"`
	QuotedRateCents int64     `json:"quoted_rate_cents"`
	QuotedRationale []string  `json:"quoted_rationale"`
	CreatedAt       time.Time `json:"created_at"`
	AlreadyDecided  bool      `json:"already_decided,omitempty"`
}
