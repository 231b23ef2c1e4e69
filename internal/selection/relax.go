package selection

import (
	"context"
	"sort"

	"github.com/jonathan/trip-planner/internal/types"
)

const (
	// hotelRelaxFactor tightens the nightly cap when re-searching for a
	// cheaper hotel.
	hotelRelaxFactor = 0.8
	// flightRelaxFactor tightens the fare cap when re-searching for a
	// cheaper flight.
	flightRelaxFactor = 0.9
)

// Relaxer walks an over-budget plan through three one-shot stages:
// prune restaurants (most expensive first), then re-search hotels at a
// tightened nightly cap, then re-search flights at a tightened fare
// cap. Later stages run only while the plan is still over budget, and
// a replacement is adopted only when it is strictly cheaper than the
// current choice. The flight and hotel are never removed outright.
type Relaxer struct {
	Budget float64
	Nights int

	// SearchHotels re-queries hotels under the given nightly cap. Nil
	// disables the hotel stage.
	SearchHotels func(ctx context.Context, maxPerNight float64) ([]types.Hotel, error)
	// SearchFlights re-queries flights under the given fare cap. Nil
	// disables the flight stage.
	SearchFlights func(ctx context.Context, maxPrice float64) ([]types.Flight, error)
}

// Relax mutates plan in place and reports what it did. The plan's
// subtotal is current on return.
func (r *Relaxer) Relax(ctx context.Context, plan *types.TripPlan) types.Relaxation {
	plan.RecomputeSubtotal()
	if plan.Costs.Subtotal <= r.Budget {
		return types.Relaxation{}
	}

	relaxation := types.Relaxation{Applied: true}

	relaxation.RestaurantsPruned = r.pruneRestaurants(plan)
	if plan.Costs.Subtotal <= r.Budget {
		return relaxation
	}

	relaxation.HotelDowngraded = r.downgradeHotel(ctx, plan)
	if plan.Costs.Subtotal <= r.Budget {
		return relaxation
	}

	relaxation.FlightDowngraded = r.downgradeFlight(ctx, plan)
	return relaxation
}

// pruneRestaurants drops the most expensive restaurants until the plan
// fits the budget or none remain. Returns the number removed.
func (r *Relaxer) pruneRestaurants(plan *types.TripPlan) int {
	pruned := 0
	for plan.Costs.Subtotal > r.Budget && len(plan.Restaurants) > 0 {
		costliest := 0
		for i, rest := range plan.Restaurants {
			if rest.EstimatedPrice > plan.Restaurants[costliest].EstimatedPrice {
				costliest = i
			}
		}
		plan.Restaurants = append(plan.Restaurants[:costliest], plan.Restaurants[costliest+1:]...)
		pruned++
		plan.RecomputeSubtotal()
	}
	return pruned
}

// downgradeHotel re-searches at a tightened nightly cap and swaps in
// the cheapest alternative when its stay cost beats the current one.
func (r *Relaxer) downgradeHotel(ctx context.Context, plan *types.TripPlan) bool {
	if r.SearchHotels == nil || plan.Hotel == nil {
		return false
	}
	nights := r.Nights
	if nights < 1 {
		nights = 1
	}
	maxPerNight := types.Round2(plan.Allocation.Hotel / float64(nights) * hotelRelaxFactor)

	hotels, err := r.SearchHotels(ctx, maxPerNight)
	if err != nil || len(hotels) == 0 {
		return false
	}
	sort.SliceStable(hotels, func(i, j int) bool {
		return hotels[i].PricePerNight < hotels[j].PricePerNight
	})

	if hotels[0].PricePerNight >= plan.Hotel.PricePerNight {
		return false
	}
	replacement := hotels[0]
	plan.Hotel = &replacement
	plan.RecomputeSubtotal()
	return true
}

// downgradeFlight re-searches at a tightened fare cap and swaps in the
// cheapest alternative when it beats the current fare.
func (r *Relaxer) downgradeFlight(ctx context.Context, plan *types.TripPlan) bool {
	if r.SearchFlights == nil || plan.Flight == nil {
		return false
	}
	maxFare := types.Round2(plan.Allocation.Flight * flightRelaxFactor)

	flights, err := r.SearchFlights(ctx, maxFare)
	if err != nil || len(flights) == 0 {
		return false
	}
	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price < flights[j].Price
	})

	if flights[0].Price >= plan.Flight.Price {
		return false
	}
	replacement := flights[0]
	plan.Flight = &replacement
	plan.RecomputeSubtotal()
	return true
}
