package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

type ShiftAdminRepository interface {
	CreateShift(ctx context.Context, shift domain.Shift) error
	GetShift(ctx context.Context, shiftID string) (domain.Shift, error)
	ListShiftsByVenue(ctx context.Context, venueID string) ([]domain.Shift, error)
	// CancelShift conditionally moves an open shift to cancelled. The bool
	// reports whether this call made the transition; an already-cancelled
	// shift returns (shift, false, nil).
	CancelShift(ctx context.Context, shiftID string) (domain.Shift, bool, error)
}

// ShiftAdminService is the venue-side provisioning surface: posting shifts,
// listing them, and cancelling them.
type ShiftAdminService struct {
	repo  ShiftAdminRepository
	clock clock.Clock
}

func NewShiftAdminService(repo ShiftAdminRepository, clk clock.Clock) *ShiftAdminService {
	return &ShiftAdminService{repo: repo, clock: clk}
}

type CreateShiftInput struct {
	VenueID          string
	Role             string
	StartsAt         time.Time
	EndsAt           time.Time
	RateFloorCents   int64
	RateCeilingCents int64
	MaxPositions     int
}

func (s *ShiftAdminService) CreateShift(ctx context.Context, in CreateShiftInput) (domain.Shift, error) {
	if in.VenueID == "" {
		return domain.Shift{}, domain.ErrInvalidID
	}
	if in.Role == "" {
		return domain.Shift{}, domain.ErrRoleRequired
	}
	if in.RateFloorCents <= 0 || in.RateCeilingCents < in.RateFloorCents {
		return domain.Shift{}, domain.ErrInvalidRateRange
	}
	if in.MaxPositions <= 0 {
		return domain.Shift{}, domain.ErrInvalidPositions
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() || !in.EndsAt.After(in.StartsAt) {
		return domain.Shift{}, domain.ErrInvalidShiftWindow
	}

	shift := domain.Shift{
		ID:               uuid.NewString(),
		VenueID:          in.VenueID,
		Role:             in.Role,
		StartsAt:         in.StartsAt.UTC(),
		EndsAt:           in.EndsAt.UTC(),
		RateFloorCents:   in.RateFloorCents,
		RateCeilingCents: in.RateCeilingCents,
		MaxPositions:     in.MaxPositions,
		PositionsOpen:    in.MaxPositions,
		Status:           domain.ShiftStatusOpen,
		CreatedAt:        s.clock.Now(),
	}

	if err := s.repo.CreateShift(ctx, shift); err != nil {
		return domain.Shift{}, err
	}
	return shift, nil
}

func (s *ShiftAdminService) ListShifts(ctx context.Context, venueID string) ([]domain.Shift, error) {
	if venueID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListShiftsByVenue(ctx, venueID)
}

// CancelShift is idempotent: cancelling an already-cancelled shift succeeds
// without another transition, so retries racing venue-side accepts are safe.
// A filled shift cannot be cancelled through this path.
func (s *ShiftAdminService) CancelShift(ctx context.Context, shiftID string) (domain.Shift, error) {
	if shiftID == "" {
		return domain.Shift{}, domain.ErrInvalidID
	}
	shift, _, err := s.repo.CancelShift(ctx, shiftID)
	if err != nil {
		return domain.Shift{}, err
	}
	return shift, nil
}
