package calculator

import (
	"math"
	"testing"

	"FundAdvisor/internal/model"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}

	sma, err := CalculateSMA(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(sma, 5.0, 1e-9) {
		t.Errorf("SMA(3) = %v, want 5.0", sma)
	}

	sma, err = CalculateSMA(prices, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(sma, 3.5, 1e-9) {
		t.Errorf("SMA(6) = %v, want 3.5", sma)
	}

	if _, err := CalculateSMA(prices, 7); err == nil {
		t.Error("expected error for period longer than data")
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateBias(t *testing.T) {
	bias, err := CalculateBias(110, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(bias, 10.0, 1e-9) {
		t.Errorf("bias = %v, want 10.0", bias)
	}

	bias, _ = CalculateBias(92, 100)
	if !almostEqual(bias, -8.0, 1e-9) {
		t.Errorf("bias = %v, want -8.0", bias)
	}

	if _, err := CalculateBias(100, 0); err == nil {
		t.Error("expected error for non-positive MA")
	}
}

func TestCalculateRSI(t *testing.T) {
	// Steady uptrend: no losses, RSI pins at 100.
	up := make([]float64, 20)
	for i := range up {
		up[i] = 10 + float64(i)
	}
	rsi, err := CalculateRSI(up, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100.0 {
		t.Errorf("uptrend RSI = %v, want 100", rsi)
	}

	// Alternating equal gains and losses balances near 50.
	alt := make([]float64, 40)
	for i := range alt {
		alt[i] = 10
		if i%2 == 1 {
			alt[i] = 11
		}
	}
	rsi, _ = CalculateRSI(alt, 14)
	if rsi < 40 || rsi > 60 {
		t.Errorf("alternating RSI = %v, want near 50", rsi)
	}

	// Insufficient data falls back to neutral.
	rsi, err = CalculateRSI([]float64{1, 2, 3}, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50.0 {
		t.Errorf("short-series RSI = %v, want 50", rsi)
	}

	if _, err := CalculateRSI(up, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateATRSeries(t *testing.T) {
	bars := make([]model.OHLCV, 20)
	for i := range bars {
		// Constant 2-point range, no gaps: TR is always 2.
		bars[i] = model.OHLCV{Open: 10, High: 11, Low: 9, Close: 10}
	}

	series, err := CalculateATRSeries(bars, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 6 {
		t.Fatalf("series length = %d, want 6", len(series))
	}
	for i, v := range series {
		if !almostEqual(v, 2.0, 1e-9) {
			t.Errorf("series[%d] = %v, want 2.0", i, v)
		}
	}

	if _, err := CalculateATRSeries(bars[:10], 14); err == nil {
		t.Error("expected error for insufficient bars")
	}
}

func TestCalculateATRSeriesUsesPrevClose(t *testing.T) {
	// A gap up makes |high - prevClose| the dominant true range.
	bars := []model.OHLCV{
		{High: 11, Low: 9, Close: 10},
		{High: 16, Low: 15, Close: 15},
	}
	series, err := CalculateATRSeries(bars, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(series[0], 6.0, 1e-9) {
		t.Errorf("gap TR = %v, want 6.0", series[0])
	}
}

func TestMean(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	mean, err := Mean(values, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(mean, 3.5, 1e-9) {
		t.Errorf("Mean(last 2) = %v, want 3.5", mean)
	}

	// n larger than the slice averages everything.
	mean, _ = Mean(values, 100)
	if !almostEqual(mean, 2.5, 1e-9) {
		t.Errorf("Mean(all) = %v, want 2.5", mean)
	}

	if _, err := Mean(nil, 5); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestMinMax(t *testing.T) {
	values := []float64{5, 1, 9, 3, 7}

	low, high, err := MinMax(values, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low != 1 || high != 9 {
		t.Errorf("full scan = (%v, %v), want (1, 9)", low, high)
	}

	// Window of 3 ignores the leading extremes.
	low, high, err = MinMax(values, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low != 3 || high != 9 {
		t.Errorf("windowed scan = (%v, %v), want (3, 9)", low, high)
	}

	if _, _, err := MinMax(nil, 10); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestExtractCloses(t *testing.T) {
	bars := []model.OHLCV{{Close: 1.5}, {Close: 2.5}}
	closes := ExtractCloses(bars)
	if len(closes) != 2 || closes[0] != 1.5 || closes[1] != 2.5 {
		t.Errorf("closes = %v, want [1.5 2.5]", closes)
	}
}
