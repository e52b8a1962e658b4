package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

type SwipeRepository struct {
	store
}

func NewSwipeRepository(pool *pgxpool.Pool) *SwipeRepository {
	return &SwipeRepository{store: store{pool: pool}}
}

func (r *SwipeRepository) GetShift(ctx context.Context, shiftID string) (domain.Shift, error) {
	return getShift(ctx, r.store, shiftID)
}

func (r *SwipeRepository) CountApplications(ctx context.Context, shiftID string) (pending, accepted int, err error) {
	return countApplications(ctx, r.store, shiftID)
}

// CreateSwipe inserts the immutable record. The unique index on
// (worker_id, shift_id) is the uniqueness mechanism; a conflict maps to
// ErrDuplicateSwipe and never overwrites the first decision.
func (r *SwipeRepository) CreateSwipe(ctx context.Context, swipe domain.Swipe) error {
	const stmt = `
INSERT INTO swipes (id, worker_id, shift_id, direction, quoted_rate_cents, quoted_rationale, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		swipe.ID,
		swipe.WorkerID,
		swipe.ShiftID,
		swipe.Direction,
		swipe.QuotedRateCents,
		swipe.QuotedRationale,
		swipe.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSwipe
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create swipe: %w", err)
	}
	return nil
}

func (r *SwipeRepository) GetSwipe(ctx context.Context, workerID, shiftID string) (*domain.Swipe, error) {
	const query = `
SELECT id, worker_id, shift_id, direction, quoted_rate_cents, quoted_rationale, created_at
FROM swipes
WHERE worker_id = $1 AND shift_id = $2`

	var sw domain.Swipe
	err := r.queryRow(ctx, query, workerID, shiftID).Scan(
		&sw.ID,
		&sw.WorkerID,
		&sw.ShiftID,
		&sw.Direction,
		&sw.QuotedRateCents,
		&sw.QuotedRationale,
		&sw.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get swipe: %w", err)
	}
	return &sw, nil
}
