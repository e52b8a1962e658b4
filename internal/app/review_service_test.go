package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/clock"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/events"
)

func TestReviewService_Accept(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("accept decrements positions and marks the application", func(t *testing.T) {
		repo := newFakeReviewRepo(reviewShift("shift-1", 2, 2), pendingApplication("app-1", "worker-1", "shift-1"))
		pub := events.NewMemoryPublisher()
		svc := NewReviewService(repo, clock.NewFixed(now), pub, nil)

		state, err := svc.Accept(context.Background(), "app-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state.PositionsOpen != 1 {
			t.Fatalf("expected 1 position open, got %d", state.PositionsOpen)
		}
		if state.Status != domain.ShiftStatusOpen {
			t.Fatalf("expected shift still open, got %s", state.Status)
		}

		application := repo.applications["app-1"]
		if application.Status != domain.ApplicationStatusAccepted {
			t.Fatalf("expected accepted, got %s", application.Status)
		}
		if application.ReviewedAt == nil || !application.ReviewedAt.Equal(now) {
			t.Fatalf("expected reviewed_at %v, got %v", now, application.ReviewedAt)
		}
		if got := len(pub.ByTopic(events.TopicApplicationAccepted)); got != 1 {
			t.Fatalf("expected 1 accepted event, got %d", got)
		}
		if got := len(pub.ByTopic(events.TopicShiftFilled)); got != 0 {
			t.Fatalf("expected no filled event with a position left, got %d", got)
		}
	})

	t.Run("accepting the last position fills the shift", func(t *testing.T) {
		repo := newFakeReviewRepo(reviewShift("shift-1", 1, 1), pendingApplication("app-1", "worker-1", "shift-1"))
		pub := events.NewMemoryPublisher()
		svc := NewReviewService(repo, clock.NewFixed(now), pub, nil)

		state, err := svc.Accept(context.Background(), "app-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state.PositionsOpen != 0 || state.Status != domain.ShiftStatusFilled {
			t.Fatalf("expected filled shift with 0 open, got %+v", state)
		}
		if got := len(pub.ByTopic(events.TopicShiftFilled)); got != 1 {
			t.Fatalf("expected 1 filled event, got %d", got)
		}
	})

	t.Run("re-accepting is a no-op success", func(t *testing.T) {
		repo := newFakeReviewRepo(reviewShift("shift-1", 2, 2), pendingApplication("app-1", "worker-1", "shift-1"))
		pub := events.NewMemoryPublisher()
		svc := NewReviewService(repo, clock.NewFixed(now), pub, nil)

		if _, err := svc.Accept(context.Background(), "app-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		state, err := svc.Accept(context.Background(), "app-1")
		if err != nil {
			t.Fatalf("expected retried accept to succeed, got %v", err)
		}
		if state.PositionsOpen != 1 {
			t.Fatalf("retry must not decrement again, got %d open", state.PositionsOpen)
		}
		if got := len(pub.ByTopic(events.TopicApplicationAccepted)); got != 1 {
			t.Fatalf("retry must not re-emit events, got %d", got)
		}
	})

	t.Run("accepting a rejected application fails", func(t *testing.T) {
		rejected := pendingApplication("app-1", "worker-1", "shift-1")
		rejected.Status = domain.ApplicationStatusRejected
		repo := newFakeReviewRepo(reviewShift("shift-1", 2, 2), rejected)
		svc := NewReviewService(repo, clock.NewFixed(now), nil, nil)

		_, err := svc.Accept(context.Background(), "app-1")
		if err != domain.ErrApplicationAlreadyReviewed {
			t.Fatalf("expected ErrApplicationAlreadyReviewed, got %v", err)
		}
	})

	t.Run("no positions available refuses the accept", func(t *testing.T) {
		repo := newFakeReviewRepo(reviewShift("shift-1", 1, 0), pendingApplication("app-1", "worker-1", "shift-1"))
		repo.shifts["shift-1"] = withStatus(repo.shifts["shift-1"], domain.ShiftStatusFilled)
		svc := NewReviewService(repo, clock.NewFixed(now), nil, nil)

		_, err := svc.Accept(context.Background(), "app-1")
		if err != domain.ErrNoPositionsAvailable {
			t.Fatalf("expected ErrNoPositionsAvailable, got %v", err)
		}
		if got := repo.applications["app-1"].Status; got != domain.ApplicationStatusPending {
			t.Fatalf("application must stay pending after refused accept, got %s", got)
		}
	})

	t.Run("unknown application", func(t *testing.T) {
		svc := NewReviewService(newFakeReviewRepo(reviewShift("shift-1", 1, 1)), clock.NewFixed(now), nil, nil)

		_, err := svc.Accept(context.Background(), "missing")
		if err != domain.ErrApplicationNotFound {
			t.Fatalf("expected ErrApplicationNotFound, got %v", err)
		}
	})
}

func TestReviewService_Reject(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("reject marks the application and emits once", func(t *testing.T) {
		repo := newFakeReviewRepo(reviewShift("shift-1", 2, 2), pendingApplication("app-1", "worker-1", "shift-1"))
		pub := events.NewMemoryPublisher()
		svc := NewReviewService(repo, clock.NewFixed(now), pub, nil)

		if err := svc.Reject(context.Background(), "app-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := repo.applications["app-1"].Status; got != domain.ApplicationStatusRejected {
			t.Fatalf("expected rejected, got %s", got)
		}
		if got := repo.shifts["shift-1"].PositionsOpen; got != 2 {
			t.Fatalf("reject must not touch capacity, got %d open", got)
		}

		// Retried reject is a no-op success.
		if err := svc.Reject(context.Background(), "app-1"); err != nil {
			t.Fatalf("expected retried reject to succeed, got %v", err)
		}
		if got := len(pub.ByTopic(events.TopicApplicationRejected)); got != 1 {
			t.Fatalf("expected 1 rejected event, got %d", got)
		}
	})

	t.Run("rejecting an accepted application fails", func(t *testing.T) {
		accepted := pendingApplication("app-1", "worker-1", "shift-1")
		accepted.Status = domain.ApplicationStatusAccepted
		repo := newFakeReviewRepo(reviewShift("shift-1", 2, 1), accepted)
		svc := NewReviewService(repo, clock.NewFixed(now), nil, nil)

		err := svc.Reject(context.Background(), "app-1")
		if err != domain.ErrApplicationAlreadyReviewed {
			t.Fatalf("expected ErrApplicationAlreadyReviewed, got %v", err)
		}
	})
}

// Many venues hammering accept on more applicants than positions must fill
// the shift exactly once and refuse the overflow.
func TestReviewService_ConcurrentAcceptsNeverOverfill(t *testing.T) {
	t.Parallel()

	const positions = 3
	const applicants = 10

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixtures := []domain.Application{}
	for i := 0; i < applicants; i++ {
		fixtures = append(fixtures, pendingApplication(fmt.Sprintf("app-%d", i), fmt.Sprintf("worker-%d", i), "shift-1"))
	}
	repo := newFakeReviewRepo(reviewShift("shift-1", positions, positions), fixtures...)
	pub := events.NewMemoryPublisher()
	svc := NewReviewService(repo, clock.NewFixed(now), pub, nil)

	var wg sync.WaitGroup
	errs := make([]error, applicants)
	for i := 0; i < applicants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(context.Background(), fmt.Sprintf("app-%d", i))
		}(i)
	}
	wg.Wait()

	acceptedCount, refused := 0, 0
	for i, err := range errs {
		switch err {
		case nil:
			acceptedCount++
		case domain.ErrNoPositionsAvailable:
			refused++
		default:
			t.Fatalf("accept %d: unexpected error %v", i, err)
		}
	}
	if acceptedCount != positions {
		t.Fatalf("expected exactly %d accepts, got %d", positions, acceptedCount)
	}
	if refused != applicants-positions {
		t.Fatalf("expected %d refusals, got %d", applicants-positions, refused)
	}

	shift := repo.shifts["shift-1"]
	if shift.PositionsOpen != 0 || shift.Status != domain.ShiftStatusFilled {
		t.Fatalf("expected filled shift with 0 open, got %+v", shift)
	}
	if got := len(pub.ByTopic(events.TopicShiftFilled)); got != 1 {
		t.Fatalf("expected exactly 1 filled event, got %d", got)
	}

	persisted := 0
	for _, a := range repo.applications {
		if a.Status == domain.ApplicationStatusAccepted {
			persisted++
		}
	}
	if persisted != positions {
		t.Fatalf("expected %d accepted rows, got %d", positions, persisted)
	}
}

// fakeReviewRepo serialises transactions with a mutex, mirroring the row
// locks the real repository takes under FOR UPDATE.
type fakeReviewRepo struct {
	mu           sync.Mutex
	shifts       map[string]domain.Shift
	applications map[string]domain.Application
}

func newFakeReviewRepo(shift domain.Shift, applications ...domain.Application) *fakeReviewRepo {
	apps := make(map[string]domain.Application)
	for _, a := range applications {
		apps[a.ID] = a
	}
	return &fakeReviewRepo{
		shifts:       map[string]domain.Shift{shift.ID: shift},
		applications: apps,
	}
}

func (f *fakeReviewRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeReviewRepo) GetApplicationForUpdate(_ context.Context, applicationID string) (domain.Application, error) {
	application, ok := f.applications[applicationID]
	if !ok {
		return domain.Application{}, domain.ErrApplicationNotFound
	}
	return application, nil
}

func (f *fakeReviewRepo) GetShift(_ context.Context, shiftID string) (domain.Shift, error) {
	shift, ok := f.shifts[shiftID]
	if !ok {
		return domain.Shift{}, domain.ErrShiftNotFound
	}
	return shift, nil
}

func (f *fakeReviewRepo) DecrementShiftPositions(_ context.Context, shiftID string) (domain.Shift, error) {
	shift, ok := f.shifts[shiftID]
	if !ok {
		return domain.Shift{}, domain.ErrShiftNotFound
	}
	if shift.Status != domain.ShiftStatusOpen || shift.PositionsOpen <= 0 {
		return domain.Shift{}, domain.ErrNoPositionsAvailable
	}
	shift.PositionsOpen--
	if shift.PositionsOpen == 0 {
		shift.Status = domain.ShiftStatusFilled
	}
	f.shifts[shiftID] = shift
	return shift, nil
}

func (f *fakeReviewRepo) SetApplicationStatus(_ context.Context, applicationID string, status domain.ApplicationStatus, reviewedAt time.Time) error {
	application, ok := f.applications[applicationID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	if application.Status != domain.ApplicationStatusPending {
		return domain.ErrApplicationAlreadyReviewed
	}
	application.Status = status
	application.ReviewedAt = &reviewedAt
	f.applications[applicationID] = application
	return nil
}

func reviewShift(id string, maxPositions, open int) domain.Shift {
	return domain.Shift{
		ID:               id,
		StartsAt:         time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		RateFloorCents:   2000,
		RateCeilingCents: 2400,
		MaxPositions:     maxPositions,
		PositionsOpen:    open,
		Status:           domain.ShiftStatusOpen,
	}
}

func withStatus(shift domain.Shift, status domain.ShiftStatus) domain.Shift {
	shift.Status = status
	return shift
}

func pendingApplication(id, workerID, shiftID string) domain.Application {
	return domain.Application{
		ID:              id,
		WorkerID:        workerID,
		ShiftID:         shiftID,
		Status:          domain.ApplicationStatusPending,
		Channel:         domain.ApplicationChannelSwipe,
		LockedRateCents: 1920,
		CreatedAt:       time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
}
