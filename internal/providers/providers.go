// Package providers defines the candidate provider contracts and their
// implementations: live travel-data clients and deterministic mocks.
// Each provider normalizes its upstream payload into the canonical
// candidate types at this boundary; nothing downstream deals with raw
// source fields.
package providers

import (
	"context"
	"sort"

	"github.com/jonathan/trip-planner/internal/types"
)

// FlightQuery parameterizes a flight search.
type FlightQuery struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Passengers  int
	// Budget caps the ticket price when positive. If the cap would
	// empty the result, the unfiltered list is returned instead.
	Budget float64
}

// HotelQuery parameterizes a hotel search.
type HotelQuery struct {
	Destination string
	CheckIn     string
	CheckOut    string
	// MaxPricePerNight caps the nightly rate when positive.
	MaxPricePerNight float64
	// StarsPreference is a minimum star rating when positive.
	StarsPreference int
}

// RestaurantQuery parameterizes a restaurant search.
type RestaurantQuery struct {
	Destination string
	Cuisine     string
	PriceLevel  int
	Limit       int
}

// FlightProvider returns flights sorted ascending by price.
type FlightProvider interface {
	Search(ctx context.Context, q FlightQuery) ([]types.Flight, error)
}

// HotelProvider returns hotels filtered by the query caps, sorted by
// rating descending then price ascending.
type HotelProvider interface {
	Search(ctx context.Context, q HotelQuery) ([]types.Hotel, error)
}

// RestaurantProvider returns at most q.Limit restaurants.
type RestaurantProvider interface {
	Search(ctx context.Context, q RestaurantQuery) ([]types.Restaurant, error)
}

// sortFlights orders flights ascending by price, in place.
func sortFlights(flights []types.Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price < flights[j].Price
	})
}

// applyFlightBudget filters flights to price <= budget. Falls back to
// the unfiltered list when the filter would empty it, so callers always
// see the cheapest options available.
func applyFlightBudget(flights []types.Flight, budget float64) []types.Flight {
	if budget <= 0 {
		return flights
	}
	affordable := make([]types.Flight, 0, len(flights))
	for _, f := range flights {
		if f.Price <= budget {
			affordable = append(affordable, f)
		}
	}
	if len(affordable) == 0 {
		return flights
	}
	return affordable
}

// filterHotels applies the query's price and star caps.
func filterHotels(hotels []types.Hotel, q HotelQuery) []types.Hotel {
	filtered := make([]types.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if q.MaxPricePerNight > 0 && h.PricePerNight > q.MaxPricePerNight {
			continue
		}
		if q.StarsPreference > 0 && h.Stars < q.StarsPreference {
			continue
		}
		filtered = append(filtered, h)
	}
	return filtered
}

// sortHotels orders hotels by rating descending, then price ascending,
// in place.
func sortHotels(hotels []types.Hotel) {
	sort.SliceStable(hotels, func(i, j int) bool {
		if hotels[i].Rating != hotels[j].Rating {
			return hotels[i].Rating > hotels[j].Rating
		}
		return hotels[i].PricePerNight < hotels[j].PricePerNight
	})
}

// capRestaurants truncates the list to the query limit.
func capRestaurants(restaurants []types.Restaurant, limit int) []types.Restaurant {
	if limit > 0 && len(restaurants) > limit {
		return restaurants[:limit]
	}
	return restaurants
}
