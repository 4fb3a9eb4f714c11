package collector

import (
	"context"
	"fmt"
	"time"

	"FundAdvisor/internal/model"
)

// Enough daily bars for the 5-year valuation window plus indicator warmup.
const dailyBarCount = 1300

// Collector orchestrates data fetching and assembles the price series.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches daily history for one fund and derives the weekly series.
func (c *Collector) Collect(ctx context.Context, code string) (*model.PriceSeries, error) {
	dailyBars, err := c.Fetcher.FetchDailyBars(ctx, code, dailyBarCount)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(dailyBars) == 0 {
		return nil, fmt.Errorf("fetch daily bars: empty response for %s", code)
	}

	return &model.PriceSeries{
		Code:         code,
		DailyBars:    dailyBars,
		WeeklyBars:   AggregateDailyToWeekly(dailyBars),
		CurrentPrice: dailyBars[len(dailyBars)-1].Close,
		FetchedAt:    time.Now(),
	}, nil
}

// AggregateDailyToWeekly converts daily bars into ISO-week bars.
func AggregateDailyToWeekly(daily []model.OHLCV) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.OHLCV
	var week model.OHLCV
	var weekStarted bool

	for _, d := range daily {
		year, isoWeek := d.Time.ISOWeek()
		weekKey := year*100 + isoWeek

		if !weekStarted {
			week = model.OHLCV{Time: d.Time, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume}
			weekStarted = true
			continue
		}

		cy, cw := week.Time.ISOWeek()
		currentKey := cy*100 + cw

		if weekKey != currentKey {
			weekly = append(weekly, week)
			week = model.OHLCV{Time: d.Time, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume}
		} else {
			if d.High > week.High {
				week.High = d.High
			}
			if d.Low < week.Low {
				week.Low = d.Low
			}
			week.Close = d.Close
			week.Volume += d.Volume
		}
	}
	if weekStarted {
		weekly = append(weekly, week)
	}
	return weekly
}
