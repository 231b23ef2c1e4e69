// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/trip-planner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAllocation outputs the per-category budget split.
func (p *Printer) PrintAllocation(alloc types.Allocation, total float64) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:      $%.2f\n", total))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Flight:     $%.2f\n", alloc.Flight))
	sb.WriteString(fmt.Sprintf("Hotel:      $%.2f\n", alloc.Hotel))
	sb.WriteString(fmt.Sprintf("Restaurant: $%.2f", alloc.Restaurant))

	p.printBox("BUDGET ALLOCATION", sb.String())
}

// PrintPlan outputs a human-readable summary of the finished plan.
func (p *Printer) PrintPlan(plan *types.TripPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Route:    %s -> %s\n", plan.Origin, plan.Destination))
	sb.WriteString(fmt.Sprintf("Nights:   %d\n", plan.Nights))
	sb.WriteString("\n")

	if plan.Flight != nil {
		sb.WriteString(fmt.Sprintf("Flight:   %s ($%.2f, %d stops)\n",
			plan.Flight.Airline, plan.Flight.Price, plan.Flight.Stops))
	} else {
		sb.WriteString("Flight:   none found\n")
	}
	if plan.Hotel != nil {
		sb.WriteString(fmt.Sprintf("Hotel:    %s ($%.2f/night, rated %.1f)\n",
			plan.Hotel.Name, plan.Hotel.PricePerNight, plan.Hotel.Rating))
	} else {
		sb.WriteString("Hotel:    none found\n")
	}

	sb.WriteString(fmt.Sprintf("Dining:   %d restaurants\n", len(plan.Restaurants)))
	for i, r := range plan.Restaurants {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(plan.Restaurants)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  %d. %s ($%.2f)\n", i+1, r.Name, r.EstimatedPrice))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Subtotal: $%.2f of $%.2f", plan.Costs.Subtotal, plan.Costs.Budget))
	if plan.WithinTolerance {
		sb.WriteString(" (on budget)")
	} else if plan.Costs.Subtotal > plan.Costs.Budget {
		sb.WriteString(" (over budget)")
	} else {
		sb.WriteString(" (under budget)")
	}

	p.printBox("TRIP PLAN", sb.String())
}

// PrintRelaxation outputs what the relaxation pass changed. Quiet when
// nothing was relaxed.
func (p *Printer) PrintRelaxation(r types.Relaxation) {
	if !r.Applied {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Restaurants pruned: %d\n", r.RestaurantsPruned))
	sb.WriteString(fmt.Sprintf("Hotel downgraded:   %v\n", r.HotelDowngraded))
	sb.WriteString(fmt.Sprintf("Flight downgraded:  %v", r.FlightDowngraded))

	p.printBox("BUDGET RELAXATION", sb.String())
}

// PrintDegradations lists the component fallbacks that occurred.
func (p *Printer) PrintDegradations(degradations []types.Degradation) {
	if len(degradations) == 0 {
		return
	}

	var sb strings.Builder
	for i, d := range degradations {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", d.Component, d.Reason))
	}

	p.printBox("DEGRADED COMPONENTS", sb.String())
}
