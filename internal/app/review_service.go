package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/events"
)

type ReviewRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetApplicationForUpdate(ctx context.Context, applicationID string) (domain.Application, error)
	GetShift(ctx context.Context, shiftID string) (domain.Shift, error)
	// DecrementShiftPositions is the guarded conditional write: it decrements
	// positions_open only while the shift is open with positions remaining,
	// flipping status to filled when the last position goes, all in one
	// statement. It fails with ErrNoPositionsAvailable when the guard does
	// not match.
	DecrementShiftPositions(ctx context.Context, shiftID string) (domain.Shift, error)
	// SetApplicationStatus transitions the row only while it is still
	// pending; ErrApplicationAlreadyReviewed otherwise.
	SetApplicationStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, reviewedAt time.Time) error
}

// ShiftState is what a venue sees after reviewing an application.
type ShiftState struct {
	ShiftID       string
	PositionsOpen int
	Status        domain.ShiftStatus
}

// ReviewService consumes venue review actions. Accept and Reject are both
// safe under arbitrary concurrent retries: the decrement rides a single
// conditional write and repeated reviews of an already-reviewed application
// in the same direction are no-op successes.
type ReviewService struct {
	repo      ReviewRepository
	clock     clock.Clock
	publisher events.Publisher
	log       *zap.Logger
}

func NewReviewService(repo ReviewRepository, clk clock.Clock, pub events.Publisher, log *zap.Logger) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{repo: repo, clock: clk, publisher: pub, log: log}
}

func (s *ReviewService) Accept(ctx context.Context, applicationID string) (ShiftState, error) {
	if applicationID == "" {
		return ShiftState{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var state ShiftState
	var accepted bool

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		application, err := s.repo.GetApplicationForUpdate(txCtx, applicationID)
		if err != nil {
			return err
		}

		switch application.Status {
		case domain.ApplicationStatusAccepted:
			// Retry of a completed accept: report current state, decrement nothing.
			shift, err := s.repo.GetShift(txCtx, application.ShiftID)
			if err != nil {
				return err
			}
			state = shiftState(shift)
			return nil
		case domain.ApplicationStatusPending:
		default:
			return domain.ErrApplicationAlreadyReviewed
		}

		shift, err := s.repo.DecrementShiftPositions(txCtx, application.ShiftID)
		if err != nil {
			return err
		}
		if err := s.repo.SetApplicationStatus(txCtx, applicationID, domain.ApplicationStatusAccepted, now); err != nil {
			return err
		}

		state = shiftState(shift)
		accepted = true
		return nil
	})
	if err != nil {
		return ShiftState{}, err
	}

	if accepted {
		s.publish(ctx, events.ApplicationAccepted{ApplicationID: applicationID, ShiftID: state.ShiftID})
		if state.Status == domain.ShiftStatusFilled {
			s.publish(ctx, events.ShiftFilled{ShiftID: state.ShiftID})
		}
	}
	return state, nil
}

func (s *ReviewService) Reject(ctx context.Context, applicationID string) error {
	if applicationID == "" {
		return domain.ErrInvalidID
	}

	now := s.clock.Now()
	var rejected bool

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		application, err := s.repo.GetApplicationForUpdate(txCtx, applicationID)
		if err != nil {
			return err
		}

		switch application.Status {
		case domain.ApplicationStatusRejected:
			return nil
		case domain.ApplicationStatusPending:
		default:
			return domain.ErrApplicationAlreadyReviewed
		}

		if err := s.repo.SetApplicationStatus(txCtx, applicationID, domain.ApplicationStatusRejected, now); err != nil {
			return err
		}
		rejected = true
		return nil
	})
	if err != nil {
		return err
	}

	if rejected {
		s.publish(ctx, events.ApplicationRejected{ApplicationID: applicationID})
	}
	return nil
}

func (s *ReviewService) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", zap.String("topic", e.Topic()), zap.Error(err))
	}
}

func shiftState(shift domain.Shift) ShiftState {
	return ShiftState{
		ShiftID:       shift.ID,
		PositionsOpen: shift.PositionsOpen,
		Status:        shift.Status,
	}
}
