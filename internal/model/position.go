package model

// TradeSide marks the direction of a recorded trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// MaxTradeHistory bounds the per-position trade record list.
// Oldest entries are evicted first, newest-last ordering preserved.
const MaxTradeHistory = 10

// TradeRecord is one ledger entry for a position.
type TradeRecord struct {
	Date   string    `json:"date"`
	Price  float64   `json:"price"`
	Side   TradeSide `json:"side"`
	Amount int       `json:"amount"` // signed currency amount, sells negative
}

// Position tracks the holdings of a single fund.
// Invariant: Shares == 0 implies Cost == 0 and HeldDays == 0.
type Position struct {
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Shares   float64       `json:"shares"`
	Cost     float64       `json:"cost"` // weighted-average entry price
	HeldDays int           `json:"held_days"`
	History  []TradeRecord `json:"history,omitempty"`
}
