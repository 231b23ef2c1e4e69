package budget

import "github.com/jonathan/trip-planner/internal/types"

// WithinTolerance reports whether subtotal lies inside the tolerance
// band around total: total*(1-tolerance) <= subtotal <= total*(1+tolerance).
// Underspending past the band fails the check the same way overspending
// does.
func WithinTolerance(subtotal, total, tolerance float64) bool {
	lower := types.Round2(total * (1 - tolerance))
	upper := types.Round2(total * (1 + tolerance))
	return subtotal >= lower && subtotal <= upper
}
