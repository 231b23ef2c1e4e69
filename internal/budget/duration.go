package budget

import "time"

// Nights returns the number of nights between two calendar dates,
// clamped at zero. It never fails; rejecting a zero-night trip is the
// caller's responsibility.
func Nights(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
