package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trip-planner/internal/providers"
	"github.com/jonathan/trip-planner/internal/ranking"
	"github.com/jonathan/trip-planner/internal/summary"
	"github.com/jonathan/trip-planner/internal/types"
)

// countingFlights wraps the mock provider and counts calls.
type countingFlights struct {
	calls int
}

func (c *countingFlights) Search(ctx context.Context, q providers.FlightQuery) ([]types.Flight, error) {
	c.calls++
	return providers.MockFlights{}.Search(ctx, q)
}

type countingHotels struct {
	calls int
}

func (c *countingHotels) Search(ctx context.Context, q providers.HotelQuery) ([]types.Hotel, error) {
	c.calls++
	return providers.MockHotels{}.Search(ctx, q)
}

type countingRestaurants struct {
	calls int
}

func (c *countingRestaurants) Search(ctx context.Context, q providers.RestaurantQuery) ([]types.Restaurant, error) {
	c.calls++
	return providers.MockRestaurants{}.Search(ctx, q)
}

type failingFlights struct{}

func (failingFlights) Search(context.Context, providers.FlightQuery) ([]types.Flight, error) {
	return nil, errors.New("upstream timeout")
}

type failingHotels struct{}

func (failingHotels) Search(context.Context, providers.HotelQuery) ([]types.Hotel, error) {
	return nil, errors.New("hotel backend down")
}

type failingRestaurants struct{}

func (failingRestaurants) Search(context.Context, providers.RestaurantQuery) ([]types.Restaurant, error) {
	return nil, errors.New("scrape blocked")
}

type fixedFlights struct{ price float64 }

func (f fixedFlights) Search(context.Context, providers.FlightQuery) ([]types.Flight, error) {
	return []types.Flight{{Airline: "FixedAir", Price: f.price}}, nil
}

type fixedHotels struct{ perNight float64 }

func (f fixedHotels) Search(context.Context, providers.HotelQuery) ([]types.Hotel, error) {
	return []types.Hotel{{Name: "Fixed Inn", PricePerNight: f.perNight, Rating: 8.0, Stars: 3}}, nil
}

func offlinePlanner() *Planner {
	return &Planner{
		Flights:     providers.MockFlights{},
		Hotels:      providers.MockHotels{},
		Restaurants: providers.MockRestaurants{},
		Ranker:      ranking.NewRanker(nil),
		Summarizer:  summary.NewSummarizer(nil),
		Out:         &bytes.Buffer{},
	}
}

func tightRequest() *types.TripRequest {
	return &types.TripRequest{
		Origin:      "SIN",
		Destination: "Bangkok",
		StartDate:   "2026-03-10",
		EndDate:     "2026-03-15",
		Budget:      400,
	}
}

func TestPlanEndToEndTightBudget(t *testing.T) {
	planner := offlinePlanner()

	plan, err := planner.Plan(context.Background(), tightRequest())
	require.NoError(t, err)

	assert.Equal(t, 5, plan.Nights)
	assert.Equal(t, types.Allocation{Flight: 120, Hotel: 160, Restaurant: 120}, plan.Allocation)

	// Even an unaffordable budget yields a complete skeleton plan.
	require.NotNil(t, plan.Flight)
	assert.Equal(t, "BudgetFly", plan.Flight.Airline)
	require.NotNil(t, plan.Hotel)
	assert.Equal(t, "Budget Stay", plan.Hotel.Name)

	// Relaxation pruned every restaurant and found nothing cheaper.
	assert.True(t, plan.Relaxation.Applied)
	assert.Equal(t, 3, plan.Relaxation.RestaurantsPruned)
	assert.False(t, plan.Relaxation.HotelDowngraded)
	assert.False(t, plan.Relaxation.FlightDowngraded)
	assert.Empty(t, plan.Restaurants)

	// 200 flight + 90*5 hotel.
	assert.Equal(t, 650.0, plan.Costs.Subtotal)
	assert.False(t, plan.WithinTolerance)

	assert.Equal(t, types.SourceLocal, plan.SummarySource)
	assert.NotEmpty(t, plan.Summary)
	assert.NotEqual(t, "", plan.ID.String())
}

func TestPlanEndToEndComfortableBudget(t *testing.T) {
	planner := offlinePlanner()
	req := tightRequest()
	req.Budget = 1500

	plan, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, plan.Relaxation.Applied)
	require.NotNil(t, plan.Flight)
	require.NotNil(t, plan.Hotel)
	assert.Len(t, plan.Restaurants, 3)
	assert.LessOrEqual(t, plan.Costs.Subtotal, req.Budget)

	// 200 flight + 90*5 hotel + 45 dining spends less than 95% of the
	// budget, which falls outside the tolerance band just like
	// overspending does.
	assert.Equal(t, 695.0, plan.Costs.Subtotal)
	assert.False(t, plan.WithinTolerance)
}

func TestPlanSubtotalInsideToleranceBand(t *testing.T) {
	planner := offlinePlanner()
	planner.Flights = fixedFlights{price: 300}
	planner.Hotels = fixedHotels{perNight: 60}

	req := tightRequest()
	req.Budget = 645

	plan, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)

	// 300 flight + 60*5 hotel + 45 dining lands exactly on budget.
	assert.Equal(t, 645.0, plan.Costs.Subtotal)
	assert.False(t, plan.Relaxation.Applied)
	assert.True(t, plan.WithinTolerance)
}

func TestPlanAllProviderFailuresRecorded(t *testing.T) {
	planner := offlinePlanner()
	planner.Flights = failingFlights{}
	planner.Hotels = failingHotels{}
	planner.Restaurants = failingRestaurants{}

	plan, err := planner.Plan(context.Background(), tightRequest())
	require.NoError(t, err, "provider failures must not abort planning")

	assert.Nil(t, plan.Flight)
	assert.Nil(t, plan.Hotel)
	assert.Empty(t, plan.Restaurants)

	// Every concurrent query's failure lands in the degradation list.
	var components []string
	for _, d := range plan.Degradations {
		components = append(components, d.Component)
	}
	assert.Contains(t, components, "flight_provider")
	assert.Contains(t, components, "hotel_provider")
	assert.Contains(t, components, "restaurant_provider")
}

func TestPlanInvalidDatesAbortsBeforeProviders(t *testing.T) {
	flights := &countingFlights{}
	hotels := &countingHotels{}
	restaurants := &countingRestaurants{}
	planner := offlinePlanner()
	planner.Flights = flights
	planner.Hotels = hotels
	planner.Restaurants = restaurants

	req := tightRequest()
	req.StartDate = "2026-03-15"
	req.EndDate = "2026-03-10"

	_, err := planner.Plan(context.Background(), req)
	require.ErrorIs(t, err, types.ErrInvalidDates)
	assert.Zero(t, flights.calls)
	assert.Zero(t, hotels.calls)
	assert.Zero(t, restaurants.calls)
}

func TestPlanInvalidBudget(t *testing.T) {
	planner := offlinePlanner()
	req := tightRequest()
	req.Budget = 0

	_, err := planner.Plan(context.Background(), req)
	assert.ErrorIs(t, err, types.ErrInvalidBudget)
}

func TestPlanIdempotentWithDeterministicBackends(t *testing.T) {
	planner := offlinePlanner()

	first, err := planner.Plan(context.Background(), tightRequest())
	require.NoError(t, err)
	second, err := planner.Plan(context.Background(), tightRequest())
	require.NoError(t, err)

	// IDs and timestamps differ per invocation; everything else must
	// match exactly.
	first.ID = second.ID
	first.CreatedAt = second.CreatedAt
	assert.Equal(t, first, second)
}

func TestPlanProviderFailureIsIsolated(t *testing.T) {
	planner := offlinePlanner()
	planner.Flights = failingFlights{}

	plan, err := planner.Plan(context.Background(), tightRequest())
	require.NoError(t, err, "a provider failure must not abort planning")

	assert.Nil(t, plan.Flight)
	require.NotNil(t, plan.Hotel, "hotel query is unaffected by the flight failure")

	found := false
	for _, d := range plan.Degradations {
		if d.Component == "flight_provider" {
			found = true
			assert.Contains(t, d.Reason, "upstream timeout")
		}
	}
	assert.True(t, found, "flight failure must be recorded as a degradation")
}

func TestPlanAllocationOverride(t *testing.T) {
	planner := offlinePlanner()
	req := tightRequest()
	req.Budget = 2000
	req.AllocationOverride = map[types.Category]float64{
		types.CategoryFlight:     0.25,
		types.CategoryHotel:      0.60,
		types.CategoryRestaurant: 0.15,
	}

	plan, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, types.Allocation{Flight: 500, Hotel: 1200, Restaurant: 300}, plan.Allocation)
}
