package collector

import (
	"context"
	"time"

	"FundAdvisor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price      float64
	DailyData  []model.OHLCV
	NewsTitles []string
	Snapshot   string
	Err        error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return GenerateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchNewsTitles(_ context.Context, _ string, _ int) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.NewsTitles, nil
}

func (m *MockFetcher) FetchIndexSnapshot(_ context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Snapshot, nil
}

// GenerateMockBars builds a gently drifting series ending near basePrice.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
