package strategy

import (
	"errors"
	"fmt"
	"math"

	"FundAdvisor/internal/calculator"
	"FundAdvisor/internal/model"
)

// ErrInsufficientData is returned when a fund has too little history to score.
// The caller must skip the fund for this cycle.
var ErrInsufficientData = errors.New("insufficient price history")

const (
	minDailyBars   = 60
	minWeeklyBars  = 21 // 20-week MA needs a full window plus the current bar
	rsiPeriod      = 14
	atrPeriod      = 14
	atrMeanWindow  = 60
	atrDampenAbove = 1.5
	trendLookback  = 5 // MA20 slope window for the daily trend
	bounceScoreCap = 45
)

// features is the fixed indicator set the rule table consumes.
type features struct {
	code        string
	price       float64
	rsi         float64
	bias20      float64
	atrRatio    float64
	trendDaily  model.DailyTrend
	trendWeekly model.WeeklyTrend
}

// Evaluate computes the full technical profile for one fund.
// Requires at least 60 daily bars; the score is clamped to [0,100] before
// the signal mapping and before display.
func Evaluate(series *model.PriceSeries) (*model.TechnicalProfile, error) {
	f, err := extractFeatures(series)
	if err != nil {
		return nil, err
	}
	return scoreFeatures(f), nil
}

// extractFeatures turns raw price history into the indicator set.
func extractFeatures(series *model.PriceSeries) (features, error) {
	var f features
	if series == nil || len(series.DailyBars) < minDailyBars {
		return f, fmt.Errorf("%w: need %d daily bars", ErrInsufficientData, minDailyBars)
	}

	dailyCloses := calculator.ExtractCloses(series.DailyBars)
	f.code = series.Code
	f.price = dailyCloses[len(dailyCloses)-1]

	// Weekly trend: latest weekly close vs the 20-week MA.
	f.trendWeekly = model.WeeklyUnknown
	if len(series.WeeklyBars) >= minWeeklyBars {
		weeklyCloses := calculator.ExtractCloses(series.WeeklyBars)
		if ma20w, err := calculator.CalculateSMA(weeklyCloses, 20); err == nil {
			if weeklyCloses[len(weeklyCloses)-1] > ma20w {
				f.trendWeekly = model.WeeklyUp
			} else {
				f.trendWeekly = model.WeeklyDown
			}
		}
	}

	rsi, err := calculator.CalculateRSI(dailyCloses, rsiPeriod)
	if err != nil {
		return f, fmt.Errorf("%w: rsi: %v", ErrInsufficientData, err)
	}
	f.rsi = rsi

	ma20, err := calculator.CalculateSMA(dailyCloses, 20)
	if err != nil {
		return f, fmt.Errorf("%w: ma20: %v", ErrInsufficientData, err)
	}
	bias, err := calculator.CalculateBias(f.price, ma20)
	if err != nil {
		return f, fmt.Errorf("invalid ma20: %w", err)
	}
	f.bias20 = bias

	// Daily trend: a rising 20-day MA marks a bull structure.
	f.trendDaily = model.TrendBear
	if ma20Prev, err := calculator.CalculateSMA(dailyCloses[:len(dailyCloses)-trendLookback], 20); err == nil && ma20 > ma20Prev {
		f.trendDaily = model.TrendBull
	}

	f.atrRatio = 1.0
	if atrs, err := calculator.CalculateATRSeries(series.DailyBars, atrPeriod); err == nil {
		if mean, err := calculator.Mean(atrs, atrMeanWindow); err == nil && mean > 0 {
			f.atrRatio = atrs[len(atrs)-1] / mean
		}
	}

	return f, nil
}

// scoreFeatures applies the additive rule table. Every applied rule appends
// a reason tag; tags are display-only, never consumed downstream.
func scoreFeatures(f features) *model.TechnicalProfile {
	p := &model.TechnicalProfile{
		Code:        f.code,
		Price:       round(f.price, 3),
		RSI:         round(f.rsi, 2),
		Bias20:      round(f.bias20, 2),
		ATRRatio:    round(f.atrRatio, 2),
		TrendDaily:  f.trendDaily,
		TrendWeekly: f.trendWeekly,
	}

	score := 0.0

	// Rule 1: weekly trend.
	switch f.trendWeekly {
	case model.WeeklyUp:
		score += 40
		p.QuantReasons = append(p.QuantReasons, "周线站上20周均线 +40")
	case model.WeeklyDown:
		score -= 20
		p.QuantReasons = append(p.QuantReasons, "周线跌破20周均线 -20")
	}

	// Rule 2: daily RSI(14).
	switch {
	case f.rsi < 30:
		score += 40
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("RSI超卖(%.0f) +40", f.rsi))
	case f.rsi <= 40:
		score += 20
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("RSI偏低(%.0f) +20", f.rsi))
	case f.rsi > 70:
		score -= 30
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("RSI超买(%.0f) -30", f.rsi))
	}

	// Rule 3: 20-day bias.
	switch {
	case f.bias20 < -5:
		score += 15
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("20日乖离超跌(%.1f%%) +15", f.bias20))
	case f.bias20 > 5:
		score -= 10
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("20日乖离偏高(%.1f%%) -10", f.bias20))
	}

	// Rule 4: daily structure vs RSI.
	if f.trendDaily == model.TrendBull && f.rsi < 60 {
		score += 20
		p.QuantReasons = append(p.QuantReasons, "日线多头结构 +20")
	} else if f.trendDaily == model.TrendBear && f.rsi > 40 {
		score -= 10
		p.QuantReasons = append(p.QuantReasons, "日线空头结构 -10")
	}

	// Rule 5: volatility dampening, applied once after the additive terms.
	if f.atrRatio > atrDampenAbove {
		score *= 0.8
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("波动放大(ATR %.2fx) 评分×0.8", f.atrRatio))
	}

	// Rule 6: counter-trend cap, a bear-market bounce never scores above 45.
	if f.trendWeekly == model.WeeklyDown && f.trendDaily == model.TrendBull && score > bounceScoreCap {
		score = bounceScoreCap
		p.QuantReasons = append(p.QuantReasons, "熊市反弹 评分封顶45")
	}

	p.QuantScore = clampScore(score)
	p.QuantSignal = mapSignal(p.QuantScore)
	return p
}

// mapSignal maps a clamped score to its discrete signal.
func mapSignal(score int) model.QuantSignal {
	switch {
	case score >= 85:
		return model.SignalStrongBuy
	case score >= 60:
		return model.SignalBuy
	case score <= 15:
		return model.SignalSell
	default:
		return model.SignalWait
	}
}

func clampScore(score float64) int {
	s := int(math.Round(score))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
