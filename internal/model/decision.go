package model

// ValuationResult is the long-horizon cheap/expensive overlay for one fund.
type ValuationResult struct {
	Multiplier  float64
	Description string
}

// Action labels for DecisionResult.
const (
	LabelBuy  = "买入"
	LabelSell = "卖出"
	LabelHold = "观望"
)

// DecisionResult is the bounded trade action for one fund in one cycle.
// Transient: only its effect on the Position is persisted.
type DecisionResult struct {
	Amount    int // currency amount to buy, 0 unless Label == LabelBuy
	Label     string
	IsSell    bool
	SellValue float64 // currency value to sell, 0 unless IsSell
}

// Advice aggregates everything the report renderer needs for one fund.
type Advice struct {
	Code      string
	Name      string
	Profile   *TechnicalProfile
	Decision  DecisionResult
	Narrative string // free-text commentary from the sentiment advisor
	Position  Position
	History   []TradeRecord
}

// CycleFailure records one fund excluded from a cycle and why.
type CycleFailure struct {
	Code   string
	Name   string
	Reason string
}
