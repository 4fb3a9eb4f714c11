package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds raw price data for one fund, time-ascending.
// Owned by the caller; read-only to the analysis packages.
type PriceSeries struct {
	Code         string
	DailyBars    []OHLCV
	WeeklyBars   []OHLCV
	CurrentPrice float64
	FetchedAt    time.Time
}

// DailyCloses extracts the close column from the daily bars.
func (s *PriceSeries) DailyCloses() []float64 {
	closes := make([]float64, len(s.DailyBars))
	for i, b := range s.DailyBars {
		closes[i] = b.Close
	}
	return closes
}
