package calculator

import (
	"errors"
	"math"
)

// MinMax scans the most recent `window` values and returns the extremes.
// A window <= 0 scans everything.
func MinMax(values []float64, window int) (low, high float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	start := 0
	if window > 0 && len(values) > window {
		start = len(values) - window
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for i := start; i < len(values); i++ {
		if values[i] < low {
			low = values[i]
		}
		if values[i] > high {
			high = values[i]
		}
	}
	return low, high, nil
}
