package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  float64
		total     float64
		tolerance float64
		want      bool
	}{
		{"exactly on budget", 1000, 1000, 0.05, true},
		{"at upper bound", 1050, 1000, 0.05, true},
		{"just over upper bound", 1050.01, 1000, 0.05, false},
		{"at lower bound", 950, 1000, 0.05, true},
		{"just under lower bound", 949.99, 1000, 0.05, false},
		{"far under budget", 695, 1500, 0.05, false},
		{"wider tolerance admits more", 880, 1000, 0.15, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinTolerance(tt.subtotal, tt.total, tt.tolerance))
		})
	}
}
