package scheduler

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"FundAdvisor/internal/advisor"
	"FundAdvisor/internal/collector"
	"FundAdvisor/internal/config"
	"FundAdvisor/internal/decision"
	"FundAdvisor/internal/ledger"
	"FundAdvisor/internal/model"
	"FundAdvisor/internal/notifier"
	"FundAdvisor/internal/recorder"
	"FundAdvisor/internal/strategy"
	"FundAdvisor/internal/valuation"

	"github.com/robfig/cron/v3"
)

const newsTitleLimit = 8

// Scheduler manages the cron-driven advisory cycle.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Ledger    *ledger.Manager
	Advisor   advisor.Advisor
	Recorder  recorder.Recorder
	Mailer    *notifier.Mailer
	Cfg       *config.Config
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, col *collector.Collector, lm *ledger.Manager, adv advisor.Advisor, rec recorder.Recorder, mailer *notifier.Mailer) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Ledger:    lm,
		Advisor:   adv,
		Recorder:  rec,
		Mailer:    mailer,
		Cfg:       cfg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily advisory task.
func (s *Scheduler) RegisterAll() error {
	if _, err := s.Cron.AddFunc(s.Cfg.Schedule.DailyCron, s.runCycle); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the advisory cycle immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runCycle()
}

// runCycle evaluates every configured fund with a bounded worker pool,
// then mails the aggregated report sorted by final score.
func (s *Scheduler) runCycle() {
	log.Printf("[INFO] advisory cycle starting, %d funds", len(s.Cfg.Funds))

	// Held-days tick first, exactly once per cycle.
	if err := s.Ledger.ConfirmTrades(); err != nil {
		log.Printf("[ERROR] confirm trades: %v", err)
	}

	marketCtx, err := s.Collector.Fetcher.FetchIndexSnapshot(s.Ctx)
	if err != nil {
		log.Printf("[WARN] index snapshot unavailable: %v", err)
		marketCtx = ""
	}

	jobs := make(chan config.FundConfig)
	var (
		mu       sync.Mutex
		advices  []model.Advice
		failures []model.CycleFailure
		wg       sync.WaitGroup
	)

	for i := 0; i < s.Cfg.Worker.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fund := range jobs {
				if !s.jitter() {
					return
				}
				advice, err := s.evaluateFund(fund, marketCtx)
				mu.Lock()
				if err != nil {
					log.Printf("[ERROR] evaluate %s (%s): %v", fund.Name, fund.Code, err)
					failures = append(failures, model.CycleFailure{Code: fund.Code, Name: fund.Name, Reason: err.Error()})
				} else {
					advices = append(advices, *advice)
				}
				mu.Unlock()
			}
		}()
	}

	for _, fund := range s.Cfg.Funds {
		select {
		case <-s.Ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- fund:
		}
	}
	close(jobs)
	wg.Wait()

	// Best opportunities first.
	sort.Slice(advices, func(i, j int) bool {
		return advices[i].Profile.FinalScore > advices[j].Profile.FinalScore
	})

	for _, f := range failures {
		if err := s.Recorder.RecordFailure(&recorder.Failure{Code: f.Code, Name: f.Name, Reason: f.Reason}); err != nil {
			log.Printf("[ERROR] record failure: %v", err)
		}
	}

	html := notifier.FormatReport(advices, failures, marketCtx)
	if err := s.Mailer.Send(notifier.FormatSubject(advices), html); err != nil {
		log.Printf("[ERROR] mail report: %v", err)
	}

	log.Printf("[INFO] advisory cycle done: %d advised, %d skipped", len(advices), len(failures))
}

// evaluateFund runs the full pipeline for one fund. Collaborator failures
// degrade to neutral defaults; only data or scoring failures skip the fund.
func (s *Scheduler) evaluateFund(fund config.FundConfig, marketCtx string) (*model.Advice, error) {
	series, err := s.Collector.Collect(s.Ctx, fund.Code)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	profile, err := strategy.Evaluate(series)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	profile.Name = fund.Name

	keyword := fund.Keyword
	if keyword == "" {
		keyword = fund.Name
	}
	titles, err := s.Collector.Fetcher.FetchNewsTitles(s.Ctx, keyword, newsTitleLimit)
	if err != nil {
		log.Printf("[WARN] news for %s unavailable: %v", fund.Code, err)
		titles = nil
	}

	assessment, err := s.Advisor.Assess(s.Ctx, &advisor.Request{
		FundName:      fund.Name,
		Profile:       profile,
		MarketContext: marketCtx,
		NewsTitles:    titles,
	})
	if err != nil {
		log.Printf("[WARN] sentiment for %s unavailable, using neutral: %v", fund.Code, err)
		assessment = &advisor.Assessment{}
	}

	val := valuation.Evaluate(series.DailyCloses())

	// Read position, decide and record the trade as one critical section.
	res, err := s.Ledger.ApplyDecision(fund.Code, fund.Name, profile.Price, func(pos model.Position) model.DecisionResult {
		return decision.Decide(decision.Input{
			Profile:    profile,
			Adjustment: assessment.Adjustment,
			Valuation:  val,
			BaseAmount: s.Cfg.Invest.BaseAmount,
			DailyCap:   s.Cfg.Invest.DailyCap,
			Position:   pos,
			Strategy:   fund.Strategy,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("record trade: %w", err)
	}

	position := s.Ledger.GetPosition(fund.Code)

	if res.Amount > 0 || res.IsSell {
		side := "BUY"
		value := float64(res.Amount)
		if res.IsSell {
			side = "SELL"
			value = res.SellValue
		}
		if err := s.Recorder.RecordTrade(&recorder.TradeEvent{
			Code: fund.Code, Name: fund.Name, Side: side, Price: profile.Price, Value: value,
		}); err != nil {
			log.Printf("[ERROR] record trade %s: %v", fund.Code, err)
		}
	}

	if err := s.Recorder.RecordEvaluation(&recorder.Evaluation{
		Code:          fund.Code,
		Name:          fund.Name,
		Price:         profile.Price,
		QuantScore:    profile.QuantScore,
		FinalScore:    profile.FinalScore,
		Signal:        string(profile.QuantSignal),
		Adjustment:    profile.AIAdjustment,
		ValMultiplier: val.Multiplier,
		Label:         res.Label,
		Amount:        res.Amount,
		SellValue:     res.SellValue,
		Shares:        position.Shares,
		HeldDays:      position.HeldDays,
	}); err != nil {
		log.Printf("[ERROR] record evaluation %s: %v", fund.Code, err)
	}

	return &model.Advice{
		Code:      fund.Code,
		Name:      fund.Name,
		Profile:   profile,
		Decision:  res,
		Narrative: assessment.Commentary,
		Position:  position,
		History:   s.Ledger.SignalHistory(fund.Code),
	}, nil
}

// jitter sleeps a random interval before an evaluation to soften the
// outbound request pattern. Returns false if the context was cancelled.
func (s *Scheduler) jitter() bool {
	if s.Cfg.Worker.JitterSeconds <= 0 {
		return true
	}
	d := time.Duration(rand.Intn(s.Cfg.Worker.JitterSeconds*1000)) * time.Millisecond
	select {
	case <-s.Ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
