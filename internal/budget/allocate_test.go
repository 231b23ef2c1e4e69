package budget

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/trip-planner/internal/types"
)

func TestAllocate_Defaults(t *testing.T) {
	alloc := Allocate(1000, nil)

	assert.Equal(t, 300.00, alloc.Flight)
	assert.Equal(t, 400.00, alloc.Hotel)
	assert.Equal(t, 300.00, alloc.Restaurant)
}

func TestAllocate_FullOverride(t *testing.T) {
	alloc := Allocate(2000, map[types.Category]float64{
		types.CategoryFlight:     0.25,
		types.CategoryHotel:      0.60,
		types.CategoryRestaurant: 0.15,
	})

	assert.Equal(t, 500.00, alloc.Flight)
	assert.Equal(t, 1200.00, alloc.Hotel)
	assert.Equal(t, 300.00, alloc.Restaurant)
}

func TestAllocate_RelativeOverride(t *testing.T) {
	// Weights need not sum to 1.0; they are normalized.
	alloc := Allocate(1000, map[types.Category]float64{
		types.CategoryFlight:     2,
		types.CategoryHotel:      1,
		types.CategoryRestaurant: 1,
	})

	assert.Equal(t, 500.00, alloc.Flight)
	assert.Equal(t, 250.00, alloc.Hotel)
	assert.Equal(t, 250.00, alloc.Restaurant)
}

func TestAllocate_PartialOverride(t *testing.T) {
	// Missing categories take their defaults before normalization:
	// flight 0.5, hotel 0.4, restaurant 0.3, normalized over 1.2.
	alloc := Allocate(1200, map[types.Category]float64{
		types.CategoryFlight: 0.5,
	})

	assert.Equal(t, 500.00, alloc.Flight)
	assert.Equal(t, 400.00, alloc.Hotel)
	assert.Equal(t, 300.00, alloc.Restaurant)
}

func TestAllocate_ZeroSumOverrideFallsBack(t *testing.T) {
	alloc := Allocate(1000, map[types.Category]float64{
		types.CategoryFlight: 0,
		types.CategoryHotel:  0,
	})

	assert.Equal(t, 300.00, alloc.Flight)
	assert.Equal(t, 400.00, alloc.Hotel)
	assert.Equal(t, 300.00, alloc.Restaurant)
}

func TestAllocate_SumInvariant(t *testing.T) {
	budgets := []float64{0, 1, 99.99, 100, 333.33, 1000, 2499.97, 100000}
	overrides := []map[types.Category]float64{
		nil,
		{types.CategoryFlight: 0.33, types.CategoryHotel: 0.33, types.CategoryRestaurant: 0.34},
		{types.CategoryFlight: 1, types.CategoryHotel: 1, types.CategoryRestaurant: 1},
		{types.CategoryHotel: 0.7},
	}

	for _, b := range budgets {
		for i, ov := range overrides {
			t.Run(fmt.Sprintf("budget=%.2f/override=%d", b, i), func(t *testing.T) {
				alloc := Allocate(b, ov)
				assert.Equal(t, types.Round2(b), alloc.Total())
				assert.GreaterOrEqual(t, alloc.Flight, 0.0)
				assert.GreaterOrEqual(t, alloc.Hotel, 0.0)
			})
		}
	}
}

func TestNights(t *testing.T) {
	date := func(s string) time.Time {
		d, err := time.Parse(types.DateLayout, s)
		if err != nil {
			t.Fatalf("bad test date %q: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"five nights", "2026-03-01", "2026-03-06", 5},
		{"one night", "2026-03-01", "2026-03-02", 1},
		{"same day", "2026-03-01", "2026-03-01", 0},
		{"inverted clamps to zero", "2026-03-06", "2026-03-01", 0},
		{"across month boundary", "2026-01-30", "2026-02-02", 3},
		{"across year boundary", "2025-12-30", "2026-01-02", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(date(tt.start), date(tt.end)))
		})
	}
}
