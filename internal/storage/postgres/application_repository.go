package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

const applicationColumns = `id, worker_id, shift_id, status, channel, priority, locked_rate_cents, created_at, reviewed_at`

// ApplicationRepository backs both the application creation path and the
// venue review path.
type ApplicationRepository struct {
	store
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{store: store{pool: pool}}
}

func (r *ApplicationRepository) GetShift(ctx context.Context, shiftID string) (domain.Shift, error) {
	return getShift(ctx, r.store, shiftID)
}

func (r *ApplicationRepository) CountApplications(ctx context.Context, shiftID string) (pending, accepted int, err error) {
	return countApplications(ctx, r.store, shiftID)
}

// CreateApplication inserts the rate-locked row. Uniqueness per
// (worker_id, shift_id) is enforced by the index, so concurrent duplicate
// requests resolve to exactly one row and ErrDuplicateApplication for the
// losers.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, application domain.Application) error {
	const stmt = `
INSERT INTO applications (id, worker_id, shift_id, status, channel, priority, locked_rate_cents, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		application.ID,
		application.WorkerID,
		application.ShiftID,
		application.Status,
		application.Channel,
		application.Priority,
		application.LockedRateCents,
		application.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateApplication
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) GetApplication(ctx context.Context, applicationID string) (domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return r.scanApplication(r.queryRow(ctx, query, applicationID))
}

func (r *ApplicationRepository) GetApplicationForUpdate(ctx context.Context, applicationID string) (domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 FOR UPDATE`
	return r.scanApplication(r.queryRow(ctx, query, applicationID))
}

// DecrementShiftPositions is the load-bearing guarded write: decrement and
// the filled transition happen in one statement, and the guard refuses the
// decrement once positions run out or the shift leaves the open state.
func (r *ApplicationRepository) DecrementShiftPositions(ctx context.Context, shiftID string) (domain.Shift, error) {
	const stmt = `
UPDATE shifts
SET positions_open = positions_open - 1,
    status = CASE WHEN positions_open = 1 THEN 'filled' ELSE status END
WHERE id = $1 AND status = 'open' AND positions_open > 0
RETURNING ` + shiftColumns

	shift, err := scanShift(r.queryRow(ctx, stmt, shiftID))
	if err == nil {
		return shift, nil
	}
	if err != pgx.ErrNoRows {
		if isInvalidUUID(err) {
			return domain.Shift{}, domain.ErrInvalidID
		}
		return domain.Shift{}, fmt.Errorf("decrement shift positions: %w", err)
	}

	// Guard did not match: classify why for the caller.
	shift, err = getShift(ctx, r.store, shiftID)
	if err != nil {
		return domain.Shift{}, err
	}
	if shift.Status == domain.ShiftStatusCancelled {
		return domain.Shift{}, domain.ErrShiftNotOpen
	}
	return domain.Shift{}, domain.ErrNoPositionsAvailable
}

// SetApplicationStatus transitions a pending application. Zero rows affected
// means another reviewer got there first.
func (r *ApplicationRepository) SetApplicationStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, reviewedAt time.Time) error {
	const stmt = `
UPDATE applications
SET status = $2, reviewed_at = $3
WHERE id = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, applicationID, status, reviewedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrApplicationAlreadyReviewed
	}
	return nil
}

func (r *ApplicationRepository) scanApplication(row pgx.Row) (domain.Application, error) {
	var a domain.Application
	err := row.Scan(
		&a.ID,
		&a.WorkerID,
		&a.ShiftID,
		&a.Status,
		&a.Channel,
		&a.Priority,
		&a.LockedRateCents,
		&a.CreatedAt,
		&a.ReviewedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Application{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Application{}, domain.ErrApplicationNotFound
		}
		return domain.Application{}, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}
