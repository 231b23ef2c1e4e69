// Package budget splits a total trip budget into per-category amounts
// and computes trip duration in nights.
package budget

import (
	"github.com/jonathan/trip-planner/internal/types"
)

// Default percentage split over flight/hotel/restaurant.
const (
	defaultFlightPct     = 0.30
	defaultHotelPct      = 0.40
	defaultRestaurantPct = 0.30
)

// Allocate splits total across the three categories. With no override
// the default 30/40/30 split applies. An override may be partial and
// need not sum to 1.0: each missing category takes its default
// percentage and the three values are normalized by their sum, so
// relative overrides stay proportionally valid. An override whose
// values sum to zero or less is ignored entirely.
//
// Amounts are rounded to cents and the rounding drift is folded into
// the restaurant share. Restaurant spend is the most elastic category,
// which makes it the fixed reconciliation target; the choice is
// arbitrary but deterministic. Allocate never fails; a non-positive
// total simply yields zero amounts.
func Allocate(total float64, override map[types.Category]float64) types.Allocation {
	flightPct, hotelPct, restaurantPct := defaultFlightPct, defaultHotelPct, defaultRestaurantPct

	if override != nil {
		sum := 0.0
		for _, v := range override {
			sum += v
		}
		if sum > 0 {
			pick := func(c types.Category, def float64) float64 {
				if v, ok := override[c]; ok {
					return v
				}
				return def
			}
			flightPct = pick(types.CategoryFlight, defaultFlightPct)
			hotelPct = pick(types.CategoryHotel, defaultHotelPct)
			restaurantPct = pick(types.CategoryRestaurant, defaultRestaurantPct)
			norm := flightPct + hotelPct + restaurantPct
			flightPct /= norm
			hotelPct /= norm
			restaurantPct /= norm
		}
	}

	alloc := types.Allocation{
		Flight:     types.Round2(total * flightPct),
		Hotel:      types.Round2(total * hotelPct),
		Restaurant: types.Round2(total * restaurantPct),
	}

	// Fold rounding drift into the restaurant share so the category
	// amounts sum to the total exactly.
	diff := types.Round2(total - (alloc.Flight + alloc.Hotel + alloc.Restaurant))
	if diff != 0 {
		alloc.Restaurant = types.Round2(alloc.Restaurant + diff)
	}

	return alloc
}
