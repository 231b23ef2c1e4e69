// Package selection turns ranked candidates into a concrete itinerary
// and relaxes it when the total runs over budget.
package selection

import (
	"github.com/jonathan/trip-planner/internal/types"
)

// PickTop returns the highest-ranked candidate. When ranking produced
// nothing it falls back to the cheapest raw candidate, and returns nil
// only when there are no candidates at all.
func PickTop[T types.Candidate](ranked []types.Scored[T], raw []T) *T {
	if len(ranked) > 0 {
		top := ranked[0].Candidate
		return &top
	}
	if len(raw) == 0 {
		return nil
	}
	cheapest := raw[0]
	for _, c := range raw[1:] {
		if c.PriceValue() < cheapest.PriceValue() {
			cheapest = c
		}
	}
	return &cheapest
}

// GreedyRestaurants walks restaurants in rank order, accepting each
// whose estimated price fits the remaining dining budget. Zero-priced
// entries are always accepted and consume nothing; an unaffordable
// entry is skipped, not terminal, so cheaper lower-ranked options can
// still fill the budget.
func GreedyRestaurants(ranked []types.Scored[types.Restaurant], budget float64) []types.Restaurant {
	remaining := budget
	chosen := make([]types.Restaurant, 0, len(ranked))
	for _, s := range ranked {
		price := s.Candidate.EstimatedPrice
		if price <= 0 {
			chosen = append(chosen, s.Candidate)
			continue
		}
		if price <= remaining {
			chosen = append(chosen, s.Candidate)
			remaining = types.Round2(remaining - price)
		}
	}
	return chosen
}
