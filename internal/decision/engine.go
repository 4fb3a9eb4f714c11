// Package decision fuses the tactical score, the sentiment adjustment, the
// valuation multiplier and the current position into a bounded trade action.
package decision

import (
	"fmt"
	"math"

	"FundAdvisor/internal/model"
)

// Strategy types the engine treats specially for contrarian accumulation.
const (
	StrategyCore     = "core"
	StrategyDividend = "dividend"
)

const minHoldDays = 7

// Input carries everything one decision needs. Decide is pure: it never
// errors and touches no shared state.
type Input struct {
	Profile    *model.TechnicalProfile
	Adjustment int // bounded sentiment nudge, typically in [-20, 20]
	Valuation  model.ValuationResult
	BaseAmount float64
	DailyCap   float64
	Position   model.Position
	Strategy   string // "core" | "dividend" | "satellite" | ...
}

// tacticalTiers maps the adjusted score to a tactical multiplier, evaluated
// top-down. Scores strictly between 25 and 60 fall through to 0: a dead zone
// with no tactical signal.
var tacticalTiers = []struct {
	match func(score int) bool
	mult  float64
}{
	{func(s int) bool { return s >= 85 }, 2.0},
	{func(s int) bool { return s >= 70 }, 1.0},
	{func(s int) bool { return s >= 60 }, 0.5},
	{func(s int) bool { return s <= 25 }, -1.0},
}

// Decide resolves the final trade action for one fund.
// Every applied branch appends a reason tag to the profile for display.
func Decide(in Input) model.DecisionResult {
	p := in.Profile

	// Step 1: fold in the sentiment adjustment, clamped back to [0,100].
	score := clamp(p.QuantScore+in.Adjustment, 0, 100)
	p.FinalScore = score
	p.AIAdjustment = in.Adjustment
	p.ValuationDesc = in.Valuation.Description

	// Step 2: tactical multiplier.
	mult := 0.0
	for _, tier := range tacticalTiers {
		if tier.match(score) {
			mult = tier.mult
			break
		}
	}

	// Step 3: strategic overlay through the valuation multiplier.
	val := in.Valuation.Multiplier
	switch {
	case mult > 0:
		if val < 0.5 {
			mult = 0
			p.QuantReasons = append(p.QuantReasons, "估值过高 暂停买入")
		} else if val > 1.0 {
			mult *= val
			p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("低估加码 ×%.1f", val))
		}
	case mult < 0:
		if val > 1.2 {
			mult = 0
			p.QuantReasons = append(p.QuantReasons, "底部锁定 暂不卖出")
		} else if val < 0.8 {
			mult *= 1.5
			p.QuantReasons = append(p.QuantReasons, "高估止损 加速卖出")
		}
	default:
		if val >= 1.5 && (in.Strategy == StrategyCore || in.Strategy == StrategyDividend) {
			mult = 0.5
			p.QuantReasons = append(p.QuantReasons, "深度低估 逆向定投")
		}
	}

	// Step 4: minimum holding lock, fresh positions are never panic-sold.
	if mult < 0 && in.Position.Shares > 0 && in.Position.HeldDays < minHoldDays {
		mult = 0
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("持有不足%d天 锁定", minHoldDays))
	}

	// Step 5: resolve to a bounded action.
	switch {
	case mult > 0:
		amount := int(math.Round(in.BaseAmount * mult))
		if amount < 0 {
			amount = 0
		}
		if in.DailyCap > 0 && float64(amount) > in.DailyCap {
			amount = int(in.DailyCap)
		}
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("买入 ¥%d", amount))
		return model.DecisionResult{Amount: amount, Label: model.LabelBuy}
	case mult < 0:
		frac := math.Min(-mult, 1.0)
		value := round2(in.Position.Shares * p.Price * frac)
		p.QuantReasons = append(p.QuantReasons, fmt.Sprintf("卖出 %.0f%%仓位", frac*100))
		return model.DecisionResult{Label: model.LabelSell, IsSell: true, SellValue: value}
	default:
		return model.DecisionResult{Label: model.LabelHold}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
