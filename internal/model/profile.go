package model

// DailyTrend classifies the short-term price structure.
type DailyTrend string

const (
	TrendBull DailyTrend = "BULL"
	TrendBear DailyTrend = "BEAR"
)

// WeeklyTrend classifies the long-term price structure.
type WeeklyTrend string

const (
	WeeklyUp      WeeklyTrend = "UP"
	WeeklyDown    WeeklyTrend = "DOWN"
	WeeklyUnknown WeeklyTrend = "UNKNOWN"
)

// QuantSignal is the discrete reading mapped from the tactical score.
type QuantSignal string

const (
	SignalStrongBuy QuantSignal = "STRONG_BUY"
	SignalBuy       QuantSignal = "BUY"
	SignalWait      QuantSignal = "WAIT"
	SignalSell      QuantSignal = "SELL"
)

// TechnicalProfile is the full technical reading for one fund in one cycle.
// The scorer fills everything up to QuantReasons; the decision engine appends
// FinalScore, AIAdjustment and ValuationDesc, plus further reason tags.
type TechnicalProfile struct {
	Code        string
	Name        string
	Price       float64
	RSI         float64
	Bias20      float64
	ATRRatio    float64
	TrendDaily  DailyTrend
	TrendWeekly WeeklyTrend

	QuantScore   int
	QuantSignal  QuantSignal
	QuantReasons []string

	// Filled by the decision engine.
	FinalScore    int
	AIAdjustment  int
	ValuationDesc string
}
