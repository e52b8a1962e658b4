package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/rate"
)

type SwipeRepository interface {
	GetShift(ctx context.Context, shiftID string) (domain.Shift, error)
	CountApplications(ctx context.Context, shiftID string) (pending, accepted int, err error)
	CreateSwipe(ctx context.Context, swipe domain.Swipe) error
	GetSwipe(ctx context.Context, workerID, shiftID string) (*domain.Swipe, error)
}

// SwipeService persists immutable swipe records. The quote at the moment of
// the gesture is captured on every direction, pass included.
type SwipeService struct {
	repo  SwipeRepository
	calc  *rate.Calculator
	clock clock.Clock
}

func NewSwipeService(repo SwipeRepository, calc *rate.Calculator, clk clock.Clock) *SwipeService {
	return &SwipeService{repo: repo, calc: calc, clock: clk}
}

type RecordSwipeInput struct {
	WorkerID  string
	ShiftID   string
	Direction domain.SwipeDirection
}

// Record stores the worker's gesture. A second swipe on the same (worker,
// shift) pair fails with ErrDuplicateSwipe and returns the original record so
// callers can surface the first decision.
func (s *SwipeService) Record(ctx context.Context, in RecordSwipeInput) (domain.Swipe, error) {
	if in.WorkerID == "" || in.ShiftID == "" {
		return domain.Swipe{}, domain.ErrInvalidID
	}
	if !in.Direction.Valid() {
		return domain.Swipe{}, domain.ErrInvalidSwipeDirection
	}

	shift, err := s.repo.GetShift(ctx, in.ShiftID)
	if err != nil {
		return domain.Swipe{}, err
	}

	now := s.clock.Now()
	pending, accepted, err := s.repo.CountApplications(ctx, in.ShiftID)
	if err != nil {
		return domain.Swipe{}, err
	}
	quote := s.calc.Calculate(rateInputs(shift, demandSignals(shift, pending, accepted, now)))

	swipe := domain.Swipe{
		ID:              uuid.NewString(),
		WorkerID:        in.WorkerID,
		ShiftID:         in.ShiftID,
		Direction:       in.Direction,
		QuotedRateCents: quote.WorkerRateCents,
		QuotedRationale: quote.Rationale,
		CreatedAt:       now,
	}

	if err := s.repo.CreateSwipe(ctx, swipe); err != nil {
		if errors.Is(err, domain.ErrDuplicateSwipe) {
			if existing, lookupErr := s.repo.GetSwipe(ctx, in.WorkerID, in.ShiftID); lookupErr == nil && existing != nil {
				return *existing, domain.ErrDuplicateSwipe
			}
			return domain.Swipe{}, domain.ErrDuplicateSwipe
		}
		return domain.Swipe{}, err
	}
	return swipe, nil
}
