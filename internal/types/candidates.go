// Package types defines the shared data model for trip planning:
// candidate records, budget allocations, and the assembled trip plan.
package types

// Category identifies one of the three spending categories a trip
// budget is split across.
type Category string

// Category constants name the three candidate categories.
const (
	CategoryFlight     Category = "flight"
	CategoryHotel      Category = "hotel"
	CategoryRestaurant Category = "restaurant"
)

// Categories lists all categories in allocation order.
func Categories() []Category {
	return []Category{CategoryFlight, CategoryHotel, CategoryRestaurant}
}

// Candidate is implemented by every category-specific candidate record.
// It exposes the signals the heuristic ranker and the selection engine
// need without caring which category a candidate belongs to.
type Candidate interface {
	// Label returns a short display name (airline, hotel name, restaurant name).
	Label() string
	// PriceValue returns the candidate's price signal in the plan currency.
	PriceValue() float64
	// RatingValue returns a quality signal, 0 when the category has none.
	RatingValue() float64
}

// Flight is a single flight option returned by a flight provider.
// Immutable once produced.
type Flight struct {
	Airline   string  `json:"airline"`
	Departure string  `json:"departure"`
	Arrival   string  `json:"arrival"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Stops     int     `json:"stops"`
	Link      string  `json:"link,omitempty"`
}

// Label returns the operating airline.
func (f Flight) Label() string { return f.Airline }

// PriceValue returns the total ticket price.
func (f Flight) PriceValue() float64 { return f.Price }

// RatingValue returns 0; flights carry no rating signal.
func (f Flight) RatingValue() float64 { return 0 }

// Hotel is a single hotel option returned by a hotel provider.
type Hotel struct {
	Name          string  `json:"name"`
	Stars         int     `json:"stars"`
	PricePerNight float64 `json:"price_per_night"`
	Rating        float64 `json:"rating"`
	Currency      string  `json:"currency"`
	Link          string  `json:"link,omitempty"`
}

// Label returns the hotel name.
func (h Hotel) Label() string { return h.Name }

// PriceValue returns the per-night price.
func (h Hotel) PriceValue() float64 { return h.PricePerNight }

// RatingValue returns the guest rating.
func (h Hotel) RatingValue() float64 { return h.Rating }

// Restaurant is a single restaurant option returned by a restaurant
// provider. EstimatedPrice is the canonical price field; providers are
// responsible for normalizing whatever key their upstream source uses
// (estimated_price, avg_price, price) into it.
type Restaurant struct {
	Name           string  `json:"name"`
	Cuisine        string  `json:"cuisine"`
	EstimatedPrice float64 `json:"estimated_price"`
	Link           string  `json:"link,omitempty"`
}

// Label returns the restaurant name.
func (r Restaurant) Label() string { return r.Name }

// PriceValue returns the estimated price per meal.
func (r Restaurant) PriceValue() float64 { return r.EstimatedPrice }

// RatingValue returns 0; restaurant candidates carry no rating signal.
func (r Restaurant) RatingValue() float64 { return 0 }

// Scored pairs a candidate with a desirability score. Scores are in
// [1,100]; ordering by score descending defines selection priority.
type Scored[T Candidate] struct {
	Candidate T       `json:"candidate"`
	Score     float64 `json:"score"`
}
