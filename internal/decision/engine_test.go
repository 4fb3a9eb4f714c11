package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FundAdvisor/internal/model"
)

func input(score int, price float64) Input {
	return Input{
		Profile:    &model.TechnicalProfile{Code: "510300", QuantScore: score, Price: price},
		Valuation:  model.ValuationResult{Multiplier: 1.0, Description: "估值适中"},
		BaseAmount: 500,
		DailyCap:   2000,
		Strategy:   "satellite",
	}
}

func TestDecide_StrongSignalWithUndervaluationBoost(t *testing.T) {
	in := input(90, 1.5)
	in.Valuation.Multiplier = 1.3

	res := Decide(in)
	// 2.0 tactical × 1.3 valuation = 2.6 → round(500*2.6) = 1300, under the cap.
	assert.Equal(t, model.LabelBuy, res.Label)
	assert.Equal(t, 1300, res.Amount)
	assert.False(t, res.IsSell)
	assert.Equal(t, 90, in.Profile.FinalScore)
}

func TestDecide_BuyAmountCappedAtDailyLimit(t *testing.T) {
	in := input(90, 1.5)
	in.Valuation.Multiplier = 1.3
	in.BaseAmount = 1000

	res := Decide(in)
	// round(1000*2.6) = 2600 clamps to the 2000 cap.
	assert.Equal(t, 2000, res.Amount)
}

func TestDecide_ValuationBrakeBlocksBuy(t *testing.T) {
	in := input(90, 1.5)
	in.Valuation.Multiplier = 0.4

	res := Decide(in)
	assert.Equal(t, model.LabelHold, res.Label)
	assert.Zero(t, res.Amount)
}

func TestDecide_HoldingLockBlocksFreshSell(t *testing.T) {
	// A fresh position is never panic-sold, whatever the valuation says.
	for _, mult := range []float64{0.5, 0.7, 1.0, 1.1} {
		in := input(10, 2.0)
		in.Position = model.Position{Code: "510300", Shares: 100, Cost: 2.2, HeldDays: 3}
		in.Valuation.Multiplier = mult

		res := Decide(in)
		assert.Falsef(t, res.IsSell, "valuation %.1f: fresh position must not be sold", mult)
		assert.Equal(t, model.LabelHold, res.Label)
	}
}

func TestDecide_SeasonedPositionSells(t *testing.T) {
	in := input(10, 2.0)
	in.Position = model.Position{Code: "510300", Shares: 100, Cost: 2.2, HeldDays: 30}

	res := Decide(in)
	assert.True(t, res.IsSell)
	assert.Equal(t, model.LabelSell, res.Label)
	// -1.0 multiplier sells the full position: 100 × 2.0.
	assert.InDelta(t, 200.0, res.SellValue, 1e-9)
}

func TestDecide_OvervaluationAcceleratesSellFractionCap(t *testing.T) {
	in := input(10, 2.0)
	in.Position = model.Position{Code: "510300", Shares: 100, Cost: 2.2, HeldDays: 30}
	in.Valuation.Multiplier = 0.7

	res := Decide(in)
	assert.True(t, res.IsSell)
	// -1.0 × 1.5 = -1.5, but the sell fraction caps at 100%.
	assert.InDelta(t, 200.0, res.SellValue, 1e-9)
}

func TestDecide_BottomLockBlocksSell(t *testing.T) {
	in := input(10, 2.0)
	in.Position = model.Position{Code: "510300", Shares: 100, Cost: 2.2, HeldDays: 30}
	in.Valuation.Multiplier = 1.3

	res := Decide(in)
	assert.False(t, res.IsSell)
	assert.Equal(t, model.LabelHold, res.Label)
}

func TestDecide_ContrarianAccumulation(t *testing.T) {
	// Dead-zone score with deep value: core and dividend strategies
	// dollar-cost-average in, satellites stay out.
	for _, tc := range []struct {
		strategy string
		amount   int
	}{
		{StrategyCore, 250},
		{StrategyDividend, 250},
		{"satellite", 0},
	} {
		in := input(40, 1.5)
		in.Valuation.Multiplier = 1.6
		in.Strategy = tc.strategy

		res := Decide(in)
		assert.Equalf(t, tc.amount, res.Amount, "strategy %s", tc.strategy)
	}
}

func TestDecide_DeadZoneHolds(t *testing.T) {
	for _, score := range []int{26, 40, 59} {
		res := Decide(input(score, 1.5))
		assert.Equalf(t, model.LabelHold, res.Label, "score %d", score)
	}
}

func TestDecide_AdjustmentClampsIntoRange(t *testing.T) {
	in := input(95, 1.5)
	in.Adjustment = 20

	Decide(in)
	assert.Equal(t, 100, in.Profile.FinalScore)

	in2 := input(5, 1.5)
	in2.Adjustment = -20

	Decide(in2)
	assert.Equal(t, 0, in2.Profile.FinalScore)
}

func TestDecide_NegativeAdjustmentCanDowngradeBuy(t *testing.T) {
	in := input(65, 1.5)
	in.Adjustment = -10

	res := Decide(in)
	// 65 - 10 = 55 lands in the dead zone.
	assert.Equal(t, model.LabelHold, res.Label)
}
