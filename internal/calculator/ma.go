package calculator

import (
	"errors"

	"FundAdvisor/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateBias returns the deviation of price from ma as a percentage.
func CalculateBias(price, ma float64) (float64, error) {
	if ma <= 0 {
		return 0, errors.New("moving average must be positive")
	}
	return (price - ma) / ma * 100, nil
}

// ExtractCloses returns the close column of the given bars.
func ExtractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
