package domain

import "time"

type SwipeDirection string

const (
	SwipeDirectionPass          SwipeDirection = "pass"
	SwipeDirectionApply         SwipeDirection = "apply"
	SwipeDirectionPriorityApply SwipeDirection = "priority_apply"
)

// Valid reports whether d is one of the recognised gestures.
func (d SwipeDirection) Valid() bool {
	switch d {
	case SwipeDirectionPass, SwipeDirectionApply, SwipeDirectionPriorityApply:
		return true
	}
	return false
}

// Swipe is an immutable record of a worker's gesture on a shift. At most one
// swipe exists per (worker, shift) pair; the first decision is authoritative.
// The quote visible at swipe time is captured for every direction, including
// pass, so analytics sees both sides of each decision.
type Swipe struct {
	ID              string
	WorkerID        string
	ShiftID         string
	Direction       SwipeDirection
	QuotedRateCents int64
	QuotedRationale []string
	CreatedAt       time.Time
}
