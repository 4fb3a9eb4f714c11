package calculator

import (
	"errors"
	"math"

	"FundAdvisor/internal/model"
)

// CalculateATRSeries computes the Wilder-smoothed ATR for every bar from
// index `period` onward. Requires at least period+1 bars.
func CalculateATRSeries(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return nil, errors.New("not enough data for ATR calculation")
	}

	trs := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs = append(trs, math.Max(hl, math.Max(hc, lc)))
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += trs[i]
	}
	atr := sum / float64(period)

	series := make([]float64, 0, len(trs)-period+1)
	series = append(series, atr)
	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
		series = append(series, atr)
	}
	return series, nil
}

// Mean returns the arithmetic mean of the last n values, or of all values
// if fewer than n are available.
func Mean(values []float64, n int) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	start := len(values) - n
	if start < 0 {
		start = 0
	}
	var sum float64
	for i := start; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(len(values)-start), nil
}
