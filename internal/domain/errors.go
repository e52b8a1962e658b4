package domain

import "errors"

var (
	ErrShiftNotFound              = errors.New("shift not found")
	ErrShiftNotOpen               = errors.New("shift not open")
	ErrApplicationNotFound        = errors.New("application not found")
	ErrApplicationAlreadyReviewed = errors.New("application already reviewed")
	ErrNoPositionsAvailable       = errors.New("no positions available")
	ErrDuplicateSwipe             = errors.New("duplicate swipe")
	ErrDuplicateApplication       = errors.New("duplicate application")
	ErrInvalidSwipeDirection      = errors.New("invalid swipe direction")
	ErrInvalidRateRange           = errors.New("invalid rate range")
	ErrInvalidPositions           = errors.New("invalid positions")
	ErrInvalidShiftWindow         = errors.New("invalid shift window")
	ErrRoleRequired               = errors.New("role required")
	ErrInvalidID                  = errors.New("invalid id")
)
