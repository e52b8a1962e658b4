// Package rate computes the worker-facing hourly rate for an open shift from
// the venue's configured range and current demand signals. The calculation is
// a pure function of its inputs: identical inputs always produce an identical
// quote, so browse renders and the locked rate at application time agree
// whenever demand has not moved in between.
package rate

import (
	"math"

	"go.uber.org/zap"
)

// Params are the surge tunables. Urgency and scarcity each contribute an
// additive component on top of a 1.0 base multiplier; the sum is capped by
// the venue's ceiling/floor ratio.
type Params struct {
	// PlatformShare is the fraction of the venue's all-in rate retained by
	// the platform. Workers are always quoted the net figure.
	PlatformShare float64

	// MaxUrgencyBonus is the urgency component when the shift starts within
	// UrgencyMinHours (or has already started). Shifts further out than
	// UrgencyMaxHours get no urgency component; linear in between.
	MaxUrgencyBonus float64
	UrgencyMinHours float64
	UrgencyMaxHours float64

	// UnfilledBonus scales with how empty the shift still is
	// (1 - accepted/max_positions).
	UnfilledBonus float64

	// NoApplicantBonus applies when nobody is pending, stepping down by
	// PendingStep for each pending applicant already in the queue.
	NoApplicantBonus float64
	PendingStep      float64
}

// DefaultParams returns the production tunables.
func DefaultParams() Params {
	return Params{
		PlatformShare:    0.20,
		MaxUrgencyBonus:  0.25,
		UrgencyMinHours:  2,
		UrgencyMaxHours:  48,
		UnfilledBonus:    0.15,
		NoApplicantBonus: 0.10,
		PendingStep:      0.02,
	}
}

// Inputs are the demand signals for one shift at one instant.
// HoursToStart is nil when the shift's start time is unusable; nil and
// negative values are treated as maximal urgency, since the venue still
// wants coverage.
type Inputs struct {
	RateFloorCents   int64
	RateCeilingCents int64
	PendingCount     int
	AcceptedCount    int
	MaxPositions     int
	HoursToStart     *float64
}

// Quote is the worker-facing result. Rationale lists the human-readable
// reasons behind any surge; an empty list means the standard rate applied.
type Quote struct {
	WorkerRateCents int64
	SurgeMultiplier float64
	Rationale       []string
}

type Calculator struct {
	params Params
	log    *zap.Logger
}

func NewCalculator(params Params, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{params: params, log: log}
}

// Calculate is total: no input combination returns an error. Contract
// violations (inverted range, negative counts) are logged and collapse to the
// floor-derived rate with no surge.
func (c *Calculator) Calculate(in Inputs) Quote {
	base := c.netOfPlatformShare(float64(in.RateFloorCents))

	if in.RateFloorCents <= 0 || in.RateCeilingCents < in.RateFloorCents ||
		in.PendingCount < 0 || in.AcceptedCount < 0 || in.MaxPositions < 0 {
		c.log.Warn("rate inputs violate caller contract, falling back to floor",
			zap.Int64("rate_floor_cents", in.RateFloorCents),
			zap.Int64("rate_ceiling_cents", in.RateCeilingCents),
			zap.Int("pending_count", in.PendingCount),
			zap.Int("accepted_count", in.AcceptedCount),
			zap.Int("max_positions", in.MaxPositions),
		)
		return Quote{WorkerRateCents: roundHalfUp(base), SurgeMultiplier: 1}
	}

	ceiling := float64(in.RateCeilingCents) / float64(in.RateFloorCents)

	urgency := c.urgencyComponent(in.HoursToStart)
	unfilled, noApplicants := c.scarcityComponents(in)

	multiplier := 1 + urgency + unfilled + noApplicants
	if multiplier > ceiling {
		multiplier = ceiling
	}
	multiplier = round4(multiplier)

	var rationale []string
	if multiplier > 1 {
		if urgency > 0 {
			if in.HoursToStart == nil || *in.HoursToStart <= c.params.UrgencyMinHours {
				rationale = append(rationale, "last-minute coverage needed")
			} else {
				rationale = append(rationale, "shift starts soon")
			}
		}
		if unfilled > 0 {
			rationale = append(rationale, "positions still unfilled")
		}
		if noApplicants > 0 {
			rationale = append(rationale, "low applicant volume")
		}
	}

	return Quote{
		WorkerRateCents: roundHalfUp(base * multiplier),
		SurgeMultiplier: multiplier,
		Rationale:       rationale,
	}
}

func (c *Calculator) netOfPlatformShare(gross float64) float64 {
	return gross * (1 - c.params.PlatformShare)
}

func (c *Calculator) urgencyComponent(hoursToStart *float64) float64 {
	p := c.params
	if hoursToStart == nil {
		return p.MaxUrgencyBonus
	}
	h := *hoursToStart
	switch {
	case h <= p.UrgencyMinHours:
		return p.MaxUrgencyBonus
	case h >= p.UrgencyMaxHours:
		return 0
	default:
		return p.MaxUrgencyBonus * (p.UrgencyMaxHours - h) / (p.UrgencyMaxHours - p.UrgencyMinHours)
	}
}

func (c *Calculator) scarcityComponents(in Inputs) (unfilled, noApplicants float64) {
	if in.MaxPositions > 0 {
		fill := float64(in.AcceptedCount) / float64(in.MaxPositions)
		if fill > 1 {
			fill = 1
		}
		unfilled = c.params.UnfilledBonus * (1 - fill)
	}
	noApplicants = c.params.NoApplicantBonus - c.params.PendingStep*float64(in.PendingCount)
	if noApplicants < 0 {
		noApplicants = 0
	}
	return unfilled, noApplicants
}

// roundHalfUp rounds to the nearest cent, halves away from zero upward.
// A single consistent rule keeps repeated quotes byte-identical.
func roundHalfUp(cents float64) int64 {
	return int64(math.Floor(cents + 0.5))
}

func round4(v float64) float64 {
	return math.Floor(v*10000+0.5) / 10000
}
