// Package advisor supplies the qualitative overlay: a bounded integer
// adjustment to the tactical score plus a short narrative, derived from news
// sentiment and macro context. The decision engine only consumes the numeric
// adjustment; absence of an advisor degrades to 0.
package advisor

import (
	"context"

	"FundAdvisor/internal/model"
)

// Adjustment bounds enforced on every advisor reply.
const (
	MinAdjustment = -20
	MaxAdjustment = 20
)

// Request carries everything the advisor may consider for one fund.
type Request struct {
	FundName      string
	Profile       *model.TechnicalProfile
	MarketContext string
	NewsTitles    []string
}

// Assessment is the advisor's reply.
type Assessment struct {
	Adjustment int // within [MinAdjustment, MaxAdjustment]
	Commentary string
}

// Advisor produces a sentiment assessment for one fund.
type Advisor interface {
	Assess(ctx context.Context, req *Request) (*Assessment, error)
	Name() string
}

// NoopAdvisor is used when no LLM is configured: neutral adjustment, no text.
type NoopAdvisor struct{}

func NewNoopAdvisor() *NoopAdvisor { return &NoopAdvisor{} }

func (n *NoopAdvisor) Name() string { return "noop" }

func (n *NoopAdvisor) Assess(_ context.Context, _ *Request) (*Assessment, error) {
	return &Assessment{}, nil
}

// ClampAdjustment forces v into the allowed adjustment range.
func ClampAdjustment(v int) int {
	if v < MinAdjustment {
		return MinAdjustment
	}
	if v > MaxAdjustment {
		return MaxAdjustment
	}
	return v
}
