package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format accepted for trip dates.
const DateLayout = "2006-01-02"

// DefaultTolerance is the allowed fractional deviation of the final
// cost from the budget for a plan to count as on budget.
const DefaultTolerance = 0.05

// Validation sentinels. These are the only errors a planning call
// surfaces as hard failures; everything downstream degrades instead.
var (
	// ErrInvalidDates reports a zero-length or inverted date range.
	ErrInvalidDates = errors.New("end date must be after start date")
	// ErrInvalidBudget reports a non-positive total budget.
	ErrInvalidBudget = errors.New("budget must be positive")
)

// TripRequest is the structured input to a planning invocation.
type TripRequest struct {
	Origin      string  `json:"origin" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`

	Cuisine         string `json:"cuisine,omitempty"`
	Passengers      int    `json:"passengers,omitempty" validate:"omitempty,min=1"`
	StarsPreference int    `json:"stars_preference,omitempty" validate:"omitempty,min=1,max=5"`

	// AllocationOverride holds relative per-category weights. Partial
	// overrides are valid; missing categories take the defaults and the
	// whole set is normalized by the allocator.
	AllocationOverride map[Category]float64 `json:"allocation_override,omitempty"`

	// Tolerance overrides DefaultTolerance when non-zero.
	Tolerance float64 `json:"tolerance,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// Validate checks field constraints and date ordering. A failure here
// aborts planning before any provider is queried.
func (r *TripRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		if r.Budget <= 0 {
			return ErrInvalidBudget
		}
		return fmt.Errorf("invalid trip request: %w", err)
	}
	start, end, err := r.Dates()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return ErrInvalidDates
	}
	return nil
}

// Dates parses the start and end dates.
func (r *TripRequest) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", r.EndDate, err)
	}
	return start, end, nil
}

// EffectiveTolerance returns the requested tolerance or the default.
func (r *TripRequest) EffectiveTolerance() float64 {
	if r.Tolerance > 0 {
		return r.Tolerance
	}
	return DefaultTolerance
}

// EffectivePassengers returns the requested passenger count, minimum 1.
func (r *TripRequest) EffectivePassengers() int {
	if r.Passengers > 0 {
		return r.Passengers
	}
	return 1
}
