package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/app"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

// Applier is the minimal interface needed to create an application.
type Applier interface {
	Apply(ctx context.Context, in app.ApplyInput) (domain.Application, error)
}

// HandleApply creates a rate-locked application from an apply or
// priority-apply gesture. The shift being filled or cancelled is an explicit
// 409, never a silent no-op.
func HandleApply(svc Applier) http.HandlerFunc {
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

		var req applyRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		application, err := svc.Apply(r.Context(), app.ApplyInput{
			WorkerID: workerID,
			ShiftID:  req.ShiftID,
			Priority: req.Priority,
			Channel:  domain.ApplicationChannel(req.Channel),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(applicationResponse{
			ID:              application.ID,
			ShiftID:         application.ShiftID,
			Status:          string(application.Status),
			Priority:        application.Priority,
			LockedRateCents: application.LockedRateCents,
			CreatedAt:       application.CreatedAt,
		})
	}
}

type applyRequest struct {
	ShiftID  string `json:"shift_id"`
	Priority bool   `json:"priority"`
	Channel  string `json:"channel,omitempty"`
}

type applicationResponse struct {
	ID              string    `json:"id"`
	ShiftID         string    `json:"shift_id"`
	Status          string    `json:"status"`
	Priority        bool      `json:"priority"`
	LockedRateCents int64     `json:"locked_rate_cents"`
	CreatedAt       time.Time `json:"created_at"`
}
