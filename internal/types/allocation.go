package types

import "math"

// Allocation is the per-category split of a total trip budget.
// Invariant: Flight + Hotel + Restaurant equals the total budget the
// allocation was derived from, to the cent.
type Allocation struct {
	Flight     float64 `json:"flight"`
	Hotel      float64 `json:"hotel"`
	Restaurant float64 `json:"restaurant"`
}

// Total returns the sum of all category amounts.
func (a Allocation) Total() float64 {
	return Round2(a.Flight + a.Hotel + a.Restaurant)
}

// Share returns the amount allocated to the given category.
func (a Allocation) Share(c Category) float64 {
	switch c {
	case CategoryFlight:
		return a.Flight
	case CategoryHotel:
		return a.Hotel
	case CategoryRestaurant:
		return a.Restaurant
	}
	return 0
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
