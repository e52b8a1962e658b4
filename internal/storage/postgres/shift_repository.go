package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KetteringPro/swipeashift-app-sub000/internal/domain"
)

const shiftColumns = `id, venue_id, role, starts_at, ends_at, rate_floor_cents, rate_ceiling_cents, max_positions, positions_open, status, created_at`

// ShiftRepository backs the venue provisioning surface and the demand
// signal reads.
type ShiftRepository struct {
	store
}

func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{store: store{pool: pool}}
}

func (r *ShiftRepository) CreateShift(ctx context.Context, shift domain.Shift) error {
	const stmt = `
INSERT INTO shifts (id, venue_id, role, starts_at, ends_at, rate_floor_cents, rate_ceiling_cents, max_positions, positions_open, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.exec(ctx, stmt,
		shift.ID,
		shift.VenueID,
		shift.Role,
		shift.StartsAt,
		shift.EndsAt,
		shift.RateFloorCents,
		shift.RateCeilingCents,
		shift.MaxPositions,
		shift.PositionsOpen,
		shift.Status,
		shift.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

func (r *ShiftRepository) GetShift(ctx context.Context, shiftID string) (domain.Shift, error) {
	return getShift(ctx, r.store, shiftID)
}

func (r *ShiftRepository) CountApplications(ctx context.Context, shiftID string) (pending, accepted int, err error) {
	return countApplications(ctx, r.store, shiftID)
}

func (r *ShiftRepository) ListOpenShifts(ctx context.Context) ([]domain.Shift, error) {
	const query = `SELECT ` + shiftColumns + ` FROM shifts WHERE status = 'open' ORDER BY starts_at`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open shifts: %w", err)
	}
	defer rows.Close()
	return scanShifts(rows)
}

func (r *ShiftRepository) ListShiftsByVenue(ctx context.Context, venueID string) ([]domain.Shift, error) {
	const query = `SELECT ` + shiftColumns + ` FROM shifts WHERE venue_id = $1 ORDER BY starts_at`

	rows, err := r.query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("list shifts by venue: %w", err)
	}
	defer rows.Close()
	return scanShifts(rows)
}

// CancelShift flips an open shift to cancelled in one conditional write.
// An already-cancelled shift is returned unchanged; a filled shift fails
// with ErrShiftNotOpen.
func (r *ShiftRepository) CancelShift(ctx context.Context, shiftID string) (domain.Shift, bool, error) {
	const stmt = `
UPDATE shifts
SET status = 'cancelled'
WHERE id = $1 AND status = 'open'
RETURNING ` + shiftColumns

	shift, err := scanShift(r.queryRow(ctx, stmt, shiftID))
	if err == nil {
		return shift, true, nil
	}
	if err != pgx.ErrNoRows {
		if isInvalidUUID(err) {
			return domain.Shift{}, false, domain.ErrInvalidID
		}
		return domain.Shift{}, false, fmt.Errorf("cancel shift: %w", err)
	}

	shift, err = getShift(ctx, r.store, shiftID)
	if err != nil {
		return domain.Shift{}, false, err
	}
	if shift.Status == domain.ShiftStatusCancelled {
		return shift, false, nil
	}
	return domain.Shift{}, false, domain.ErrShiftNotOpen
}

func getShift(ctx context.Context, s store, shiftID string) (domain.Shift, error) {
	const query = `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	shift, err := scanShift(s.queryRow(ctx, query, shiftID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Shift{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Shift{}, domain.ErrShiftNotFound
		}
		return domain.Shift{}, fmt.Errorf("get shift: %w", err)
	}
	return shift, nil
}

func countApplications(ctx context.Context, s store, shiftID string) (pending, accepted int, err error) {
	const query = `
SELECT
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'accepted')
FROM applications
WHERE shift_id = $1`

	if err := s.queryRow(ctx, query, shiftID).Scan(&pending, &accepted); err != nil {
		if isInvalidUUID(err) {
			return 0, 0, domain.ErrInvalidID
		}
		return 0, 0, fmt.Errorf("count applications: %w", err)
	}
	return pending, accepted, nil
}

func scanShift(row pgx.Row) (domain.Shift, error) {
	var sh domain.Shift
	err := row.Scan(
		&sh.ID,
		&sh.VenueID,
		&sh.Role,
		&sh.StartsAt,
		&sh.EndsAt,
		&sh.RateFloorCents,
		&sh.RateCeilingCents,
		&sh.MaxPositions,
		&sh.PositionsOpen,
		&sh.Status,
		&sh.CreatedAt,
	)
	return sh, err
}

func scanShifts(rows pgx.Rows) ([]domain.Shift, error) {
	var out []domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shifts: %w", err)
	}
	return out, nil
}
