package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/trip-planner/internal/types"
)

// rawRestaurant mirrors the loose shapes restaurant feeds arrive in:
// the per-meal cost may appear under estimated_price, avg_price, or
// price depending on the source. Normalization happens here, once, so
// downstream code only ever sees EstimatedPrice.
type rawRestaurant struct {
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	EstimatedPrice *float64 `json:"estimated_price"`
	AvgPrice       *float64 `json:"avg_price"`
	Price          *float64 `json:"price"`
	Link           string   `json:"link"`
}

func (r rawRestaurant) normalize() types.Restaurant {
	price := 0.0
	switch {
	case r.EstimatedPrice != nil:
		price = *r.EstimatedPrice
	case r.AvgPrice != nil:
		price = *r.AvgPrice
	case r.Price != nil:
		price = *r.Price
	}
	return types.Restaurant{
		Name:           r.Name,
		Cuisine:        r.Cuisine,
		EstimatedPrice: types.Round2(price),
		Link:           r.Link,
	}
}

// StaticRestaurants serves restaurants from a local JSON file. Useful
// for curated city guides and demos; the file is re-read on every
// search so edits take effect without a restart.
type StaticRestaurants struct {
	path string
}

func NewStaticRestaurants(path string) *StaticRestaurants {
	return &StaticRestaurants{path: path}
}

func (s *StaticRestaurants) Search(_ context.Context, q RestaurantQuery) ([]types.Restaurant, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read restaurant file: %w", err)
	}

	var raw []rawRestaurant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse restaurant file %s: %w", s.path, err)
	}

	restaurants := make([]types.Restaurant, 0, len(raw))
	for _, r := range raw {
		normalized := r.normalize()
		if normalized.Name == "" {
			continue
		}
		if q.Cuisine != "" && q.Cuisine != "any" && normalized.Cuisine != "" && normalized.Cuisine != q.Cuisine {
			continue
		}
		restaurants = append(restaurants, normalized)
	}
	return capRestaurants(restaurants, q.Limit), nil
}
