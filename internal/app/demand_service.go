package app

import (
	"context"
	"time"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/rate"
)

type DemandRepository interface {
	GetShift(ctx context.Context, shiftID string) (domain.Shift, error)
	CountApplications(ctx context.Context, shiftID string) (pending, accepted int, err error)
	ListOpenShifts(ctx context.Context) ([]domain.Shift, error)
}

// DemandSignals is a point-in-time read of a shift's application pressure.
// HoursToStart is nil when the stored start time is unusable and negative
// when the shift has already started; callers decide what to do with either.
type DemandSignals struct {
	PendingCount  int
	AcceptedCount int
	PositionsOpen int
	MaxPositions  int
	HoursToStart  *float64
}

// DemandService reads demand signals and produces advisory browse-time
// quotes. It never mutates anything.
type DemandService struct {
	repo  DemandRepository
	calc  *rate.Calculator
	clock clock.Clock
}

func NewDemandService(repo DemandRepository, calc *rate.Calculator, clk clock.Clock) *DemandService {
	return &DemandService{repo: repo, calc: calc, clock: clk}
}

func (s *DemandService) Read(ctx context.Context, shiftID string) (DemandSignals, error) {
	shift, err := s.repo.GetShift(ctx, shiftID)
	if err != nil {
		return DemandSignals{}, err
	}
	pending, accepted, err := s.repo.CountApplications(ctx, shiftID)
	if err != nil {
		return DemandSignals{}, err
	}
	return demandSignals(shift, pending, accepted, s.clock.Now()), nil
}

// ShiftQuote pairs an open shift with the rate currently displayed for it.
// The quote is advisory; nothing is locked until the worker applies.
type ShiftQuote struct {
	Shift   domain.Shift
	Quote   rate.Quote
	Signals DemandSignals
}

// Browse returns every open shift with its current advisory quote.
func (s *DemandService) Browse(ctx context.Context) ([]ShiftQuote, error) {
	shifts, err := s.repo.ListOpenShifts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]ShiftQuote, 0, len(shifts))
	for _, shift := range shifts {
		pending, accepted, err := s.repo.CountApplications(ctx, shift.ID)
		if err != nil {
			return nil, err
		}
		signals := demandSignals(shift, pending, accepted, now)
		out = append(out, ShiftQuote{
			Shift:   shift,
			Quote:   s.calc.Calculate(rateInputs(shift, signals)),
			Signals: signals,
		})
	}
	return out, nil
}

func demandSignals(shift domain.Shift, pending, accepted int, now time.Time) DemandSignals {
	signals := DemandSignals{
		PendingCount:  pending,
		AcceptedCount: accepted,
		PositionsOpen: shift.PositionsOpen,
		MaxPositions:  shift.MaxPositions,
	}
	if !shift.StartsAt.IsZero() {
		h := shift.StartsAt.Sub(now).Hours()
		signals.HoursToStart = &h
	}
	return signals
}

func rateInputs(shift domain.Shift, signals DemandSignals) rate.Inputs {
	return rate.Inputs{
		RateFloorCents:   shift.RateFloorCents,
		RateCeilingCents: shift.RateCeilingCents,
		PendingCount:     signals.PendingCount,
		AcceptedCount:    signals.AcceptedCount,
		MaxPositions:     shift.MaxPositions,
		HoursToStart:     signals.HoursToStart,
	}
}
