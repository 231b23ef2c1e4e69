// Package summary turns a finished trip plan into human-readable
// itinerary text. A live language-model backend is used when
// configured; a deterministic local template covers offline use and
// every failure mode.
package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/trip-planner/internal/llm"
	"github.com/jonathan/trip-planner/internal/prompts"
	"github.com/jonathan/trip-planner/internal/types"
)

// Result is the outcome of one summarization call. FallbackReason is
// set only when the local template ran because the model path failed.
type Result struct {
	Text           string
	Source         types.Source
	FallbackReason string
}

// Summarizer renders trip plans as text. The backend variant is fixed
// at construction: with a nil client every call takes the local path.
type Summarizer struct {
	client llm.Client
}

// NewSummarizer creates a Summarizer. Pass a nil client to force the
// deterministic local backend.
func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize produces itinerary text for the plan. It never fails: a
// model error degrades to the local template.
func (s *Summarizer) Summarize(ctx context.Context, plan *types.TripPlan) Result {
	if s.client == nil {
		return Result{Text: localSummary(plan), Source: types.SourceLocal}
	}

	text, err := s.client.GenerateContent(ctx, buildSummaryPrompt(plan), llm.TierStandard)
	if err != nil || strings.TrimSpace(text) == "" {
		reason := "model returned empty summary"
		if err != nil {
			reason = err.Error()
		}
		return Result{Text: localSummary(plan), Source: types.SourceLocal, FallbackReason: reason}
	}

	return Result{Text: strings.TrimSpace(text), Source: types.SourceModel}
}

// localSummary concatenates the plan fields into a fixed-format text.
// Deterministic: identical plans yield identical summaries.
func localSummary(plan *types.TripPlan) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Trip %s -> %s, %d nights. Budget: $%.2f.\n",
		plan.Origin, plan.Destination, plan.Nights, plan.Costs.Budget)

	if plan.Flight != nil {
		fmt.Fprintf(&sb, "Flight: %s, %d stop(s), $%.2f.\n",
			plan.Flight.Airline, plan.Flight.Stops, plan.Flight.Price)
	} else {
		sb.WriteString("Flight: none found.\n")
	}

	if plan.Hotel != nil {
		fmt.Fprintf(&sb, "Hotel: %s (%d stars, rated %.1f), $%.2f/night.\n",
			plan.Hotel.Name, plan.Hotel.Stars, plan.Hotel.Rating, plan.Hotel.PricePerNight)
	} else {
		sb.WriteString("Hotel: none found.\n")
	}

	if len(plan.Restaurants) > 0 {
		names := make([]string, 0, len(plan.Restaurants))
		for _, r := range plan.Restaurants {
			names = append(names, r.Name)
		}
		fmt.Fprintf(&sb, "Restaurants: %s.\n", strings.Join(names, ", "))
	} else {
		sb.WriteString("Restaurants: none selected.\n")
	}

	fmt.Fprintf(&sb, "Total cost: $%.2f of $%.2f budget.",
		plan.Costs.Subtotal, plan.Costs.Budget)
	if remaining := types.Round2(plan.Costs.Budget - plan.Costs.Subtotal); remaining >= 0 {
		fmt.Fprintf(&sb, " Remaining: $%.2f.", remaining)
	} else {
		fmt.Fprintf(&sb, " Over budget by $%.2f.", -remaining)
	}

	return sb.String()
}

func buildSummaryPrompt(plan *types.TripPlan) string {
	flight := "None"
	if plan.Flight != nil {
		flight = fmt.Sprintf("%s, %d stop(s), $%.2f", plan.Flight.Airline, plan.Flight.Stops, plan.Flight.Price)
	}
	hotel := "None"
	if plan.Hotel != nil {
		hotel = fmt.Sprintf("%s (%d stars, rated %.1f), $%.2f/night for %d nights",
			plan.Hotel.Name, plan.Hotel.Stars, plan.Hotel.Rating, plan.Hotel.PricePerNight, plan.Nights)
	}
	restaurants := "None"
	if len(plan.Restaurants) > 0 {
		parts := make([]string, 0, len(plan.Restaurants))
		for _, r := range plan.Restaurants {
			parts = append(parts, fmt.Sprintf("%s (%s, ~$%.2f)", r.Name, r.Cuisine, r.EstimatedPrice))
		}
		restaurants = strings.Join(parts, "; ")
	}

	template := prompts.MustGet("summary.json", "summarize-itinerary")
	return prompts.Format(template, map[string]string{
		"Origin":      plan.Origin,
		"Destination": plan.Destination,
		"Nights":      strconv.Itoa(plan.Nights),
		"Budget":      strconv.FormatFloat(plan.Costs.Budget, 'f', 2, 64),
		"Subtotal":    strconv.FormatFloat(plan.Costs.Subtotal, 'f', 2, 64),
		"Flight":      flight,
		"Hotel":       hotel,
		"Restaurants": restaurants,
	})
}
