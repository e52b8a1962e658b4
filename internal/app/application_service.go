package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/events"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/rate"
)

type ApplicationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetShift(ctx context.Context, shiftID string) (domain.Shift, error)
	CountApplications(ctx context.Context, shiftID string) (pending, accepted int, err error)
	CreateApplication(ctx context.Context, application domain.Application) error
}

// ApplicationService turns an apply/priority-apply gesture into a durable,
// rate-locked application.
type ApplicationService struct {
	repo      ApplicationRepository
	calc      *rate.Calculator
	clock     clock.Clock
	publisher events.Publisher
	log       *zap.Logger
}

func NewApplicationService(repo ApplicationRepository, calc *rate.Calculator, clk clock.Clock, pub events.Publisher, log *zap.Logger) *ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{repo: repo, calc: calc, clock: clk, publisher: pub, log: log}
}

type ApplyInput struct {
	WorkerID string
	ShiftID  string
	Priority bool
	Channel  domain.ApplicationChannel
}

// Apply recomputes the rate at the instant of application, inside the same
// transaction that inserts the row, and locks it in. A browse-time quote is
// never reused; the locked value is contractual for the rest of the shift's
// lifecycle. Uniqueness per (worker, shift) rides on the storage unique
// index, so concurrent duplicate requests cannot both win.
func (s *ApplicationService) Apply(ctx context.Context, in ApplyInput) (domain.Application, error) {
	if in.WorkerID == "" || in.ShiftID == "" {
		return domain.Application{}, domain.ErrInvalidID
	}
	channel := in.Channel
	if channel == "" {
		channel = domain.ApplicationChannelSwipe
	}

	now := s.clock.Now()
	var result domain.Application

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		shift, err := s.repo.GetShift(txCtx, in.ShiftID)
		if err != nil {
			return err
		}
		if shift.Status != domain.ShiftStatusOpen {
			return domain.ErrShiftNotOpen
		}

		pending, accepted, err := s.repo.CountApplications(txCtx, in.ShiftID)
		if err != nil {
			return err
		}
		quote := s.calc.Calculate(rateInputs(shift, demandSignals(shift, pending, accepted, now)))

		application := domain.Application{
			ID:              uuid.NewString(),
			WorkerID:        in.WorkerID,
			ShiftID:         in.ShiftID,
			Status:          domain.ApplicationStatusPending,
			Channel:         channel,
			Priority:        in.Priority,
			LockedRateCents: quote.WorkerRateCents,
			CreatedAt:       now,
		}

		if err := s.repo.CreateApplication(txCtx, application); err != nil {
			return err
		}
		result = application
		return nil
	})
	if err != nil {
		return domain.Application{}, err
	}

	s.publish(ctx, events.ApplicationCreated{
		ApplicationID:   result.ID,
		WorkerID:        result.WorkerID,
		ShiftID:         result.ShiftID,
		LockedRateCents: result.LockedRateCents,
		Priority:        result.Priority,
	})
	return result, nil
}

func (s *ApplicationService) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", zap.String("topic", e.Topic()), zap.Error(err))
	}
}
