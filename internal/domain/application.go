package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
)

type ApplicationChannel string

const (
	ApplicationChannelSwipe  ApplicationChannel = "swipe"
	ApplicationChannelDirect ApplicationChannel = "direct"
)

// Application is a worker's claim on a shift. LockedRateCents is frozen at
// creation time and never changes afterwards, whatever happens to demand.
// Priority affects venue review ordering only, never pay.
type Application struct {
	ID              string
	WorkerID        string
	ShiftID         string
	Status          ApplicationStatus
	Channel         ApplicationChannel
	Priority        bool
	LockedRateCents int64
	CreatedAt       time.Time
	ReviewedAt      *time.Time
}
