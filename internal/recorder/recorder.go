package recorder

// Evaluation holds one fund's full advisory outcome for one cycle.
type Evaluation struct {
	Code          string
	Name          string
	Price         float64
	QuantScore    int
	FinalScore    int
	Signal        string
	Adjustment    int
	ValMultiplier float64
	Label         string
	Amount        int
	SellValue     float64
	Shares        float64
	HeldDays      int
}

// TradeEvent records one ledger mutation.
type TradeEvent struct {
	Code  string
	Name  string
	Side  string // "BUY" or "SELL"
	Price float64
	Value float64
}

// Failure records a fund excluded from a cycle.
type Failure struct {
	Code   string
	Name   string
	Reason string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordEvaluation(e *Evaluation) error
	RecordTrade(t *TradeEvent) error
	RecordFailure(f *Failure) error
	Close() error
}
