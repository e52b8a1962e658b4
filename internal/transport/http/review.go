package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/app"
)

// Reviewer is the minimal interface for venue review actions.
type Reviewer interface {
	Accept(ctx context.Context, applicationID string) (app.ShiftState, error)
	Reject(ctx context.Context, applicationID string) error
}

// HandleReviewApplication routes /applications/{id}/accept and
// /applications/{id}/reject. Both are idempotent under retry.
func HandleReviewApplication(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		applicationID, action, ok := parseReviewPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "accept":
			state, err := svc.Accept(r.Context(), applicationID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(shiftStateResponse{
				ShiftID:       state.ShiftID,
				PositionsOpen: state.PositionsOpen,
				Status:        string(state.Status),
			})
		case "reject":
			if err := svc.Reject(r.Context(), applicationID); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func parseReviewPath(path string) (applicationID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "applications" || parts[1] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type shiftStateResponse struct {
	ShiftID       string `json:"shift_id"`
	PositionsOpen int    `json:"positions_open"`
	Status        string `json:"status"`
}
