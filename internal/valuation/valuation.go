// Package valuation ranks the latest close inside a multi-year price window
// and turns the percentile into a strategic position-sizing multiplier.
package valuation

import (
	"fmt"

	"FundAdvisor/internal/calculator"
	"FundAdvisor/internal/model"
)

const (
	minObservations = 120
	windowSize      = 1250 // ~5 trading years
)

// multiplierTable maps the percentile to a multiplier. The rows are evaluated
// top-down and order matters: p>0.95 must be checked before p>0.85, the
// stricter threshold takes precedence.
var multiplierTable = []struct {
	match func(p float64) bool
	mult  float64
	tag   string
}{
	{func(p float64) bool { return p < 0.10 }, 1.6, "深度低估"},
	{func(p float64) bool { return p < 0.25 }, 1.3, "明显低估"},
	{func(p float64) bool { return p < 0.40 }, 1.1, "相对低估"},
	{func(p float64) bool { return p > 0.95 }, 0.0, "极度高估"},
	{func(p float64) bool { return p > 0.85 }, 0.5, "明显高估"},
}

// Evaluate computes the percentile rank of the latest close within the
// trailing window and maps it to a multiplier. Pure function, never errors:
// with fewer than 120 observations it degrades to a neutral 1.0.
func Evaluate(closes []float64) model.ValuationResult {
	if len(closes) < minObservations {
		return model.ValuationResult{Multiplier: 1.0, Description: "历史数据不足，估值中性"}
	}

	low, high, err := calculator.MinMax(closes, windowSize)
	if err != nil {
		return model.ValuationResult{Multiplier: 1.0, Description: "历史数据不足，估值中性"}
	}

	current := closes[len(closes)-1]
	p := 0.5 // degenerate all-flat window
	if high > low {
		p = (current - low) / (high - low)
	}

	mult := 1.0
	tag := "估值适中"
	for _, row := range multiplierTable {
		if row.match(p) {
			mult = row.mult
			tag = row.tag
			break
		}
	}

	return model.ValuationResult{
		Multiplier:  mult,
		Description: fmt.Sprintf("%s（位于5年价格区间%d%%分位）", tag, int(p*100)),
	}
}
