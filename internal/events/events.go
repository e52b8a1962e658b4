// Package events carries the outbound notifications this core emits for
// downstream collaborators (notification delivery, billing, search indexes).
// Delivery is fire-and-forget; a failed publish never fails the originating
// operation.
package events

import "context"

const (
	TopicApplicationCreated  = "shift.application.created"
	TopicApplicationAccepted = "shift.application.accepted"
	TopicApplicationRejected = "shift.application.rejected"
	TopicShiftFilled         = "shift.filled"
)

// Event is anything publishable on a topic.
type Event interface {
	Topic() string
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type ApplicationCreated struct {
	ApplicationID   string `json:"application_id"`
	WorkerID        string `json:"worker_id"`
	ShiftID         string `json:"shift_id"`
	LockedRateCents int64  `json:"locked_rate_cents"`
	Priority        bool   `json:"priority"`
}

func (ApplicationCreated) Topic() string { return TopicApplicationCreated }

type ApplicationAccepted struct {
	ApplicationID string `json:"application_id"`
	ShiftID       string `json:"shift_id"`
}

func (ApplicationAccepted) Topic() string { return TopicApplicationAccepted }

type ApplicationRejected struct {
	ApplicationID string `json:"application_id"`
}

func (ApplicationRejected) Topic() string { return TopicApplicationRejected }

type ShiftFilled struct {
	ShiftID string `json:"shift_id"`
}

func (ShiftFilled) Topic() string { return TopicShiftFilled }
