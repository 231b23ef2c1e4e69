package types

import (
	"time"

	"github.com/google/uuid"
)

// Source records which backend produced a ranking or summary, so
// callers and tests can tell the degraded path from the live one
// without scraping logs.
type Source string

// Source constants for ranking and summarization results.
const (
	// SourceModel means a live language-model backend produced the result.
	SourceModel Source = "model"
	// SourceHeuristic means the deterministic price/rating heuristic ran.
	SourceHeuristic Source = "heuristic"
	// SourceLocal means the deterministic local summary template ran.
	SourceLocal Source = "local"
)

// Degradation records a non-fatal failure that was converted into a
// fallback during planning.
type Degradation struct {
	Component string `json:"component"`
	Reason    string `json:"reason"`
}

// Relaxation reports what the progressive relaxation pass did.
type Relaxation struct {
	Applied           bool `json:"applied"`
	RestaurantsPruned int  `json:"restaurants_pruned"`
	HotelDowngraded   bool `json:"hotel_downgraded"`
	FlightDowngraded  bool `json:"flight_downgraded"`
}

// Costs itemizes the cost of the chosen candidates. Subtotal is
// recomputed after every mutation to the chosen items.
type Costs struct {
	Flight     float64 `json:"flight"`
	Hotel      float64 `json:"hotel"`
	Restaurant float64 `json:"restaurant"`
	Subtotal   float64 `json:"subtotal"`
	Budget     float64 `json:"budget"`
}

// TripPlan is the aggregate result of one planning invocation. It is
// owned exclusively by the selection engine while in progress and never
// mutated after being returned.
type TripPlan struct {
	ID          uuid.UUID  `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Nights      int        `json:"nights"`
	Allocation  Allocation `json:"allocation"`

	Flight *Flight `json:"chosen_flight"`
	Hotel  *Hotel  `json:"chosen_hotel"`
	// Restaurants preserves selection order.
	Restaurants []Restaurant `json:"chosen_restaurants"`

	Costs           Costs      `json:"costs"`
	WithinTolerance bool       `json:"within_tolerance"`
	Relaxation      Relaxation `json:"relaxation"`

	Degradations []Degradation `json:"degradations,omitempty"`

	Summary       string    `json:"summary,omitempty"`
	SummarySource Source    `json:"summary_source,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Degrade appends a degradation record.
func (p *TripPlan) Degrade(component, reason string) {
	p.Degradations = append(p.Degradations, Degradation{Component: component, Reason: reason})
}

// RecomputeSubtotal refreshes Costs from the currently chosen items.
func (p *TripPlan) RecomputeSubtotal() {
	p.Costs.Flight = 0
	if p.Flight != nil {
		p.Costs.Flight = Round2(p.Flight.Price)
	}
	p.Costs.Hotel = 0
	if p.Hotel != nil {
		p.Costs.Hotel = Round2(p.Hotel.PricePerNight * float64(p.Nights))
	}
	restaurants := 0.0
	for _, r := range p.Restaurants {
		restaurants += r.EstimatedPrice
	}
	p.Costs.Restaurant = Round2(restaurants)
	p.Costs.Subtotal = Round2(p.Costs.Flight + p.Costs.Hotel + p.Costs.Restaurant)
}
