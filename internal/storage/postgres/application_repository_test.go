package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
	"github.com/KetteringPro/swipeashift-app-sub000/internal/testutil"
)

func TestApplicationRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewApplicationRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateApplication enforces one per worker and shift", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		shiftID := testutil.InsertShift(t, ctx, pool, domain.Shift{})
		now := time.Now().UTC().Truncate(time.Microsecond)

		application := domain.Application{
			ID:              uuid.NewString(),
			WorkerID:        "worker-1",
			ShiftID:         shiftID,
			Status:          domain.ApplicationStatusPending,
			Channel:         domain.ApplicationChannelSwipe,
			Priority:        true,
			LockedRateCents: 2160,
			CreatedAt:       now,
		}
		if err := repo.CreateApplication(ctx, application); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		duplicate := application
		duplicate.ID = uuid.NewString()
		duplicate.LockedRateCents = 1999
		if err := repo.CreateApplication(ctx, duplicate); err != domain.ErrDuplicateApplication {
			t.Fatalf("expected ErrDuplicateApplication, got %v", err)
		}

		got, err := repo.GetApplication(ctx, application.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.LockedRateCents != 2160 || !got.Priority {
			t.Fatalf("first write must win: %+v", got)
		}
		if got.ReviewedAt != nil {
			t.Fatalf("expected nil reviewed_at, got %v", got.ReviewedAt)
		}
	})

	t.Run("GetApplicationForUpdate inside a transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		shiftID := testutil.InsertShift(t, ctx, pool, domain.Shift{})
		applicationID := testutil.InsertApplication(t, ctx, pool, shiftID, "worker-1", domain.ApplicationStatusPending)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			application, err := repo.GetApplicationForUpdate(txCtx, applicationID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if application.Status != domain.ApplicationStatusPending || application.ShiftID != shiftID {
				t.Fatalf("unexpected application: %+v", application)
			}

			_, err = repo.GetApplicationForUpdate(txCtx, "00000000-0000-0000-0000-000000000001")
			if err != domain.ErrApplicationNotFound {
				t.Fatalf("expected ErrApplicationNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
	})

	t.Run("DecrementShiftPositions fills on the last position", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		shiftID := testutil.InsertShift(t, ctx, pool, domain.Shift{MaxPositions: 2})

		shift, err := repo.DecrementShiftPositions(ctx, shiftID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if shift.PositionsOpen != 1 || shift.Status != domain.ShiftStatusOpen {
			t.Fatalf("expected 1 open, still open, got %+v", shift)
		}

		shift, err = repo.DecrementShiftPositions(ctx, shiftID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if shift.PositionsOpen != 0 || shift.Status != domain.ShiftStatusFilled {
			t.Fatalf("expected filled with 0 open, got %+v", shift)
		}

		_, err = repo.DecrementShiftPositions(ctx, shiftID)
		if err != domain.ErrNoPositionsAvailable {
			t.Fatalf("expected ErrNoPositionsAvailable, got %v", err)
		}
	})

	t.Run("DecrementShiftPositions classifies guard misses", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		cancelledID := testutil.InsertShift(t, ctx, pool, domain.Shift{Status: domain.ShiftStatusCancelled})
		_, err := repo.DecrementShiftPositions(ctx, cancelledID)
		if err != domain.ErrShiftNotOpen {
			t.Fatalf("expected ErrShiftNotOpen, got %v", err)
		}

		_, err = repo.DecrementShiftPositions(ctx, "00000000-0000-0000-0000-000000000001")
		if err != domain.ErrShiftNotFound {
			t.Fatalf("expected ErrShiftNotFound, got %v", err)
		}
	})

	t.Run("concurrent decrements never oversell capacity", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		const positions = 3
		const attempts = 8
		shiftID := testutil.InsertShift(t, ctx, pool, domain.Shift{MaxPositions: positions})

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.DecrementShiftPositions(ctx, shiftID)
			}(i)
		}
		wg.Wait()

		won := 0
		for i, err := range errs {
			switch err {
			case nil:
				won++
			case domain.ErrNoPositionsAvailable:
			default:
				t.Fatalf("attempt %d: unexpected error %v", i, err)
			}
		}
		if won != positions {
			t.Fatalf("expected exactly %d successful decrements, got %d", positions, won)
		}

		shift, err := repo.GetShift(ctx, shiftID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if shift.PositionsOpen != 0 || shift.Status != domain.ShiftStatusFilled {
			t.Fatalf("expected filled shift with 0 open, got %+v", shift)
		}
	})

	t.Run("SetApplicationStatus transitions pending exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		shiftID := testutil.InsertShift(t, ctx, pool, domain.Shift{})
		applicationID := testutil.InsertApplication(t, ctx, pool, shiftID, "worker-1", domain.ApplicationStatusPending)
		reviewedAt := time.Now().UTC().Truncate(time.Microsecond)

		if err := repo.SetApplicationStatus(ctx, applicationID, domain.ApplicationStatusAccepted, reviewedAt); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetApplication(ctx, applicationID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Status != domain.ApplicationStatusAccepted {
			t.Fatalf("expected accepted, got %s", got.Status)
		}
		if got.ReviewedAt == nil || !got.ReviewedAt.Equal(reviewedAt) {
			t.Fatalf("expected reviewed_at %v, got %v", reviewedAt, got.ReviewedAt)
		}

		err = repo.SetApplicationStatus(ctx, applicationID, domain.ApplicationStatusRejected, reviewedAt)
		if err != domain.ErrApplicationAlreadyReviewed {
			t.Fatalf("expected ErrApplicationAlreadyReviewed, got %v", err)
		}
	})
}
