package collector

import (
	"context"

	"FundAdvisor/internal/model"
)

// Fetcher defines the interface for fetching market and news data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, code string, days int) ([]model.OHLCV, error)
	FetchNewsTitles(ctx context.Context, keyword string, limit int) ([]string, error)
	FetchIndexSnapshot(ctx context.Context) (string, error)
	Name() string
}
