package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() TripRequest {
	return TripRequest{
		Origin:      "SIN",
		Destination: "Bangkok",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-06",
		Budget:      400,
	}
}

func TestTripRequestValidate_Valid(t *testing.T) {
	req := validRequest()
	require.NoError(t, req.Validate())
}

func TestTripRequestValidate_InvertedDates(t *testing.T) {
	req := validRequest()
	req.StartDate = "2026-03-06"
	req.EndDate = "2026-03-01"
	assert.ErrorIs(t, req.Validate(), ErrInvalidDates)
}

func TestTripRequestValidate_SameDayTrip(t *testing.T) {
	req := validRequest()
	req.EndDate = req.StartDate
	assert.ErrorIs(t, req.Validate(), ErrInvalidDates)
}

func TestTripRequestValidate_NonPositiveBudget(t *testing.T) {
	req := validRequest()
	req.Budget = 0
	assert.ErrorIs(t, req.Validate(), ErrInvalidBudget)

	req.Budget = -100
	assert.ErrorIs(t, req.Validate(), ErrInvalidBudget)
}

func TestTripRequestValidate_MalformedDate(t *testing.T) {
	req := validRequest()
	req.StartDate = "03/01/2026"
	assert.Error(t, req.Validate())
}

func TestTripRequestDefaults(t *testing.T) {
	req := validRequest()
	assert.Equal(t, DefaultTolerance, req.EffectiveTolerance())
	assert.Equal(t, 1, req.EffectivePassengers())

	req.Tolerance = 0.1
	req.Passengers = 3
	assert.Equal(t, 0.1, req.EffectiveTolerance())
	assert.Equal(t, 3, req.EffectivePassengers())
}

func TestRecomputeSubtotal(t *testing.T) {
	plan := &TripPlan{
		Nights: 5,
		Flight: &Flight{Airline: "BudgetFly", Price: 200},
		Hotel:  &Hotel{Name: "Budget Stay", PricePerNight: 90},
		Restaurants: []Restaurant{
			{Name: "Local Noodle House", EstimatedPrice: 8},
			{Name: "Vegetarian Corner", EstimatedPrice: 12},
		},
	}
	plan.RecomputeSubtotal()

	assert.Equal(t, 200.0, plan.Costs.Flight)
	assert.Equal(t, 450.0, plan.Costs.Hotel)
	assert.Equal(t, 20.0, plan.Costs.Restaurant)
	assert.Equal(t, 670.0, plan.Costs.Subtotal)
}

func TestRecomputeSubtotal_EmptyChoices(t *testing.T) {
	plan := &TripPlan{Nights: 2}
	plan.RecomputeSubtotal()
	assert.Zero(t, plan.Costs.Subtotal)
}
