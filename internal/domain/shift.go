package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusOpen      ShiftStatus = "open"
	ShiftStatusFilled    ShiftStatus = "filled"
	ShiftStatusCancelled ShiftStatus = "cancelled"
)

// Shift is a venue-owned unit of work with a bounded number of positions.
// PositionsOpen is mutated only through the guarded decrement on accept;
// 0 <= PositionsOpen <= MaxPositions always holds.
type Shift struct {
	ID               string
	VenueID          string
	Role             string
	StartsAt         time.Time
	EndsAt           time.Time
	RateFloorCents   int64
	RateCeilingCents int64
	MaxPositions     int
	PositionsOpen    int
	Status           ShiftStatus
	CreatedAt        time.Time
}
