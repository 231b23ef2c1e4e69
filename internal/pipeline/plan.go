// Package pipeline provides the high-level orchestration for trip planning.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/trip-planner/internal/budget"
	"github.com/jonathan/trip-planner/internal/db"
	"github.com/jonathan/trip-planner/internal/observability"
	"github.com/jonathan/trip-planner/internal/providers"
	"github.com/jonathan/trip-planner/internal/ranking"
	"github.com/jonathan/trip-planner/internal/selection"
	"github.com/jonathan/trip-planner/internal/summary"
	"github.com/jonathan/trip-planner/internal/types"
)

const (
	// queryTimeout bounds each provider call during the fan-out.
	queryTimeout = 30 * time.Second

	// Candidate caps applied before ranking, to bound its cost.
	maxFlightCandidates     = 3
	maxHotelCandidates      = 3
	maxRestaurantCandidates = 10

	// How many survivors ranking keeps per category.
	rankFlightsTopK     = 3
	rankHotelsTopK      = 3
	rankRestaurantsTopK = 6

	minRestaurantLimit = 6
)

// Planner wires the providers, ranker, and summarizer for planning
// runs. The collaborators are fixed at construction and treated as
// read-only; a single Planner serves concurrent Plan calls.
type Planner struct {
	Flights     providers.FlightProvider
	Hotels      providers.HotelProvider
	Restaurants providers.RestaurantProvider

	Ranker     *ranking.Ranker
	Summarizer *summary.Summarizer

	// Archive persists finished plans when non-nil. Archive failures
	// are warnings, never fatal.
	Archive *db.DB

	Verbose bool
	// Out receives step logging; defaults to stdout.
	Out io.Writer
}

func (p *Planner) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

// Plan produces a trip plan for the request. The only hard failure is
// input validation; once the request is valid every downstream problem
// degrades into fallbacks recorded on the plan.
func (p *Planner) Plan(ctx context.Context, req *types.TripRequest) (*types.TripPlan, error) {
	out := p.out()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, end, err := req.Dates()
	if err != nil {
		return nil, err
	}
	nights := budget.Nights(start, end)

	fmt.Fprintf(out, "Step 1/6: Allocating budget of $%.2f...\n", req.Budget)
	alloc := budget.Allocate(req.Budget, req.AllocationOverride)

	printer := observability.NewPrinter(out)
	if p.Verbose {
		printer.PrintAllocation(alloc, req.Budget)
	}

	stayNights := nights
	if stayNights < 1 {
		stayNights = 1
	}
	maxPerNight := types.Round2(alloc.Hotel / float64(stayNights))

	plan := &types.TripPlan{
		ID:          uuid.New(),
		Origin:      req.Origin,
		Destination: req.Destination,
		Nights:      nights,
		Allocation:  alloc,
		CreatedAt:   time.Now().UTC(),
	}
	plan.Costs.Budget = types.Round2(req.Budget)

	fmt.Fprintf(out, "Step 2/6: Searching flights, hotels, and restaurants...\n")
	flights, hotels, restaurants := p.fanOut(ctx, req, alloc, maxPerNight, nights, plan)
	if p.Verbose {
		fmt.Fprintf(out, "[VERBOSE] Candidates found: %d flights, %d hotels, %d restaurants\n",
			len(flights), len(hotels), len(restaurants))
	}

	flights = truncate(flights, maxFlightCandidates)
	hotels = truncate(hotels, maxHotelCandidates)
	restaurants = truncate(restaurants, maxRestaurantCandidates)

	fmt.Fprintf(out, "Step 3/6: Ranking candidates...\n")
	rc := ranking.Context{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Cuisine:     req.Cuisine,
		Nights:      nights,
	}

	frc := rc
	frc.RoleBudget = alloc.Flight
	rankedFlights := p.Ranker.RankFlights(ctx, flights, frc, rankFlightsTopK)
	recordFallback(plan, "flight_ranker", rankedFlights.FallbackReason)

	hrc := rc
	hrc.RoleBudget = alloc.Hotel
	rankedHotels := p.Ranker.RankHotels(ctx, hotels, hrc, rankHotelsTopK)
	recordFallback(plan, "hotel_ranker", rankedHotels.FallbackReason)

	rrc := rc
	rrc.RoleBudget = alloc.Restaurant
	rankedRestaurants := p.Ranker.RankRestaurants(ctx, restaurants, rrc, rankRestaurantsTopK)
	recordFallback(plan, "restaurant_ranker", rankedRestaurants.FallbackReason)

	fmt.Fprintf(out, "Step 4/6: Selecting itinerary...\n")
	plan.Flight = selection.PickTop(rankedFlights.Ranked, flights)
	plan.Hotel = selection.PickTop(rankedHotels.Ranked, hotels)
	plan.Restaurants = selection.GreedyRestaurants(rankedRestaurants.Ranked, alloc.Restaurant)
	plan.RecomputeSubtotal()

	fmt.Fprintf(out, "Step 5/6: Checking budget fit...\n")
	relaxer := &selection.Relaxer{
		Budget: req.Budget,
		Nights: nights,
		SearchHotels: func(ctx context.Context, maxPerNight float64) ([]types.Hotel, error) {
			return p.searchHotels(ctx, req, maxPerNight)
		},
		SearchFlights: func(ctx context.Context, maxPrice float64) ([]types.Flight, error) {
			return p.searchFlights(ctx, req, maxPrice)
		},
	}
	plan.Relaxation = relaxer.Relax(ctx, plan)
	if p.Verbose {
		printer.PrintRelaxation(plan.Relaxation)
	}

	tolerance := req.EffectiveTolerance()
	plan.WithinTolerance = budget.WithinTolerance(plan.Costs.Subtotal, req.Budget, tolerance)

	fmt.Fprintf(out, "Step 6/6: Summarizing trip...\n")
	sum := p.Summarizer.Summarize(ctx, plan)
	plan.Summary = sum.Text
	plan.SummarySource = sum.Source
	recordFallback(plan, "summarizer", sum.FallbackReason)

	if p.Verbose {
		printer.PrintPlan(plan)
		printer.PrintDegradations(plan.Degradations)
	}

	if p.Archive != nil {
		if err := p.Archive.SavePlan(ctx, req, plan); err != nil {
			fmt.Fprintf(out, "Warning: failed to archive plan: %v\n", err)
		} else if p.Verbose {
			fmt.Fprintf(out, "[VERBOSE] Archived plan %s\n", plan.ID)
		}
	}

	return plan, nil
}

// fanOut runs the three provider queries concurrently. Queries are
// isolated: each gets its own timeout and writes only to its own
// result and error slots. Failures are converted into degradation
// records after the join, so the plan is never touched from more than
// one goroutine. No query's failure cancels a sibling, and the group
// never carries an error.
func (p *Planner) fanOut(
	ctx context.Context,
	req *types.TripRequest,
	alloc types.Allocation,
	maxPerNight float64,
	nights int,
	plan *types.TripPlan,
) ([]types.Flight, []types.Hotel, []types.Restaurant) {
	var (
		flights     []types.Flight
		hotels      []types.Hotel
		restaurants []types.Restaurant

		flightErr     error
		hotelErr      error
		restaurantErr error
	)

	var g errgroup.Group

	g.Go(func() error {
		flights, flightErr = p.searchFlights(ctx, req, alloc.Flight)
		return nil
	})

	g.Go(func() error {
		hotels, hotelErr = p.searchHotels(ctx, req, maxPerNight)
		return nil
	})

	g.Go(func() error {
		limit := nights * 2
		if limit < minRestaurantLimit {
			limit = minRestaurantLimit
		}
		qctx, cancel := context.WithTimeout(ctx, queryTimeout)
		defer cancel()
		restaurants, restaurantErr = p.Restaurants.Search(qctx, providers.RestaurantQuery{
			Destination: req.Destination,
			Cuisine:     req.Cuisine,
			Limit:       limit,
		})
		return nil
	})

	// Goroutines always return nil, so Wait only synchronizes.
	_ = g.Wait()

	if flightErr != nil {
		plan.Degrade("flight_provider", flightErr.Error())
		flights = nil
	}
	if hotelErr != nil {
		plan.Degrade("hotel_provider", hotelErr.Error())
		hotels = nil
	}
	if restaurantErr != nil {
		plan.Degrade("restaurant_provider", restaurantErr.Error())
		restaurants = nil
	}

	return flights, hotels, restaurants
}

func (p *Planner) searchFlights(ctx context.Context, req *types.TripRequest, maxPrice float64) ([]types.Flight, error) {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return p.Flights.Search(qctx, providers.FlightQuery{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.StartDate,
		ReturnDate:  req.EndDate,
		Passengers:  req.EffectivePassengers(),
		Budget:      maxPrice,
	})
}

func (p *Planner) searchHotels(ctx context.Context, req *types.TripRequest, maxPerNight float64) ([]types.Hotel, error) {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return p.Hotels.Search(qctx, providers.HotelQuery{
		Destination:      req.Destination,
		CheckIn:          req.StartDate,
		CheckOut:         req.EndDate,
		MaxPricePerNight: maxPerNight,
		StarsPreference:  req.StarsPreference,
	})
}

func truncate[T any](items []T, max int) []T {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func recordFallback(plan *types.TripPlan, component, reason string) {
	if reason != "" {
		plan.Degrade(component, reason)
	}
}
