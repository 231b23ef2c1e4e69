package providers

import (
	"context"

	"github.com/jonathan/trip-planner/internal/types"
)

// MockFlights serves a fixed two-flight inventory. Used for offline
// planning and as the fallback when no flight credentials are set.
type MockFlights struct{}

func (MockFlights) Search(_ context.Context, q FlightQuery) ([]types.Flight, error) {
	flights := []types.Flight{
		{
			Airline:   "MockAir",
			Departure: q.DepartDate + "T09:00",
			Arrival:   q.DepartDate + "T13:30",
			Price:     280,
			Currency:  "USD",
			Stops:     0,
			Link:      "https://example.com/flights/mockair",
		},
		{
			Airline:   "BudgetFly",
			Departure: q.DepartDate + "T06:15",
			Arrival:   q.DepartDate + "T12:45",
			Price:     200,
			Currency:  "USD",
			Stops:     1,
			Link:      "https://example.com/flights/budgetfly",
		},
	}
	sortFlights(flights)
	return applyFlightBudget(flights, q.Budget), nil
}

// MockHotels serves a fixed three-hotel inventory. Like the flight
// mock it falls back to the unfiltered list when the query caps would
// leave nothing, so a plan always has a hotel candidate to relax from.
type MockHotels struct{}

func (MockHotels) Search(_ context.Context, q HotelQuery) ([]types.Hotel, error) {
	hotels := []types.Hotel{
		{
			Name:          "Agoda Plaza",
			Stars:         4,
			PricePerNight: 150,
			Rating:        8.9,
			Currency:      "USD",
			Link:          "https://example.com/hotels/agoda-plaza",
		},
		{
			Name:          "Budget Stay",
			Stars:         3,
			PricePerNight: 90,
			Rating:        7.8,
			Currency:      "USD",
			Link:          "https://example.com/hotels/budget-stay",
		},
		{
			Name:          "Luxury Resort",
			Stars:         5,
			PricePerNight: 300,
			Rating:        9.4,
			Currency:      "USD",
			Link:          "https://example.com/hotels/luxury-resort",
		},
	}
	filtered := filterHotels(hotels, q)
	if len(filtered) == 0 {
		filtered = hotels
	}
	sortHotels(filtered)
	return filtered, nil
}

// MockRestaurants serves a fixed three-restaurant inventory, optionally
// narrowed by cuisine.
type MockRestaurants struct{}

func (MockRestaurants) Search(_ context.Context, q RestaurantQuery) ([]types.Restaurant, error) {
	return mockRestaurantData(q), nil
}

func mockRestaurantData(q RestaurantQuery) []types.Restaurant {
	restaurants := []types.Restaurant{
		{
			Name:           "Local Noodle House",
			Cuisine:        "local",
			EstimatedPrice: 8,
			Link:           "https://example.com/restaurants/local-noodle-house",
		},
		{
			Name:           "Seafood Delight",
			Cuisine:        "seafood",
			EstimatedPrice: 25,
			Link:           "https://example.com/restaurants/seafood-delight",
		},
		{
			Name:           "Vegetarian Corner",
			Cuisine:        "vegetarian",
			EstimatedPrice: 12,
			Link:           "https://example.com/restaurants/vegetarian-corner",
		},
	}
	if q.Cuisine != "" && q.Cuisine != "any" {
		matched := make([]types.Restaurant, 0, len(restaurants))
		for _, r := range restaurants {
			if r.Cuisine == q.Cuisine {
				matched = append(matched, r)
			}
		}
		if len(matched) > 0 {
			restaurants = matched
		}
	}
	return capRestaurants(restaurants, q.Limit)
}
