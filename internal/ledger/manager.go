// Package ledger is the durable per-fund position store. It is the single
// shared mutable resource of the advisory cycle: one process-wide lock
// serializes every mutation, and the read-decide-write sequence of a single
// decision runs as one critical section via ApplyDecision.
package ledger

import (
	"fmt"
	"math"
	"sync"
	"time"

	"FundAdvisor/internal/model"
)

// Shares below this are considered a full exit.
const shareEpsilon = 1e-6

// Manager owns all positions and serializes access to the backing file.
type Manager struct {
	mu        sync.Mutex
	positions map[string]*model.Position
	filePath  string
}

// NewManager creates a Manager, loading state from disk. A missing or
// corrupt file initializes an empty ledger.
func NewManager(filePath string) (*Manager, error) {
	m := &Manager{
		positions: loadState(filePath),
		filePath:  filePath,
	}
	if err := saveState(m.filePath, m.positions); err != nil {
		return nil, err
	}
	return m, nil
}

// GetPosition returns a copy of the current position for code, or a
// zero-value default. Never fails.
func (m *Manager) GetPosition(code string) model.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyPosition(code)
}

// SignalHistory returns the bounded trade-record sequence for display,
// newest-last.
func (m *Manager) SignalHistory(code string) []model.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[code]
	if !ok {
		return nil
	}
	out := make([]model.TradeRecord, len(pos.History))
	copy(out, pos.History)
	return out
}

// ApplyDecision runs one read-decide-write sequence atomically: it reads the
// position, calls decide with a copy, records the resulting trade (if any)
// and persists. No other mutation can interleave.
func (m *Manager) ApplyDecision(code, name string, price float64, decide func(model.Position) model.DecisionResult) (model.DecisionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := decide(m.copyPosition(code))
	switch {
	case res.IsSell && res.SellValue > 0:
		if err := m.addTradeLocked(code, name, res.SellValue, price, true); err != nil {
			return res, err
		}
	case res.Amount > 0:
		if err := m.addTradeLocked(code, name, float64(res.Amount), price, false); err != nil {
			return res, err
		}
	}
	return res, nil
}

// AddTrade records a buy or sell for code. A no-op when price <= 0.
func (m *Manager) AddTrade(code, name string, value, price float64, isSell bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addTradeLocked(code, name, value, price, isSell)
}

// ConfirmTrades increments held_days for every open position. Run exactly
// once per cycle, before any trading decisions.
func (m *Manager) ConfirmTrades() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	for _, pos := range m.positions {
		if pos.Shares > 0 {
			pos.HeldDays++
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := saveState(m.filePath, m.positions); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

func (m *Manager) addTradeLocked(code, name string, value, price float64, isSell bool) error {
	if price <= 0 || value <= 0 {
		return nil
	}

	pos, ok := m.positions[code]
	if !ok {
		if isSell {
			return nil // nothing held, nothing to sell
		}
		pos = &model.Position{Code: code, Name: name}
		m.positions[code] = pos
	}
	if name != "" {
		pos.Name = name
	}

	recorded := value
	if isSell {
		if pos.Shares <= 0 {
			return nil
		}
		shares := value / price
		if shares >= pos.Shares-shareEpsilon {
			// Oversized sell clamps to full liquidation.
			recorded = pos.Shares * price
			pos.Shares = 0
		} else {
			pos.Shares -= shares
		}
		if pos.Shares <= shareEpsilon {
			pos.Shares = 0
			pos.Cost = 0
			pos.HeldDays = 0
		}
	} else {
		shares := value / price
		total := pos.Shares + shares
		pos.Cost = round4((pos.Shares*pos.Cost + shares*price) / total)
		if pos.Shares == 0 {
			pos.HeldDays = 1
		}
		pos.Shares = total
	}

	side := model.SideBuy
	amount := int(math.Round(recorded))
	if isSell {
		side = model.SideSell
		amount = -amount
	}
	pos.History = append(pos.History, model.TradeRecord{
		Date:   time.Now().Format("2006-01-02"),
		Price:  round3(price),
		Side:   side,
		Amount: amount,
	})
	if len(pos.History) > model.MaxTradeHistory {
		pos.History = pos.History[len(pos.History)-model.MaxTradeHistory:]
	}

	if err := saveState(m.filePath, m.positions); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

func (m *Manager) copyPosition(code string) model.Position {
	pos, ok := m.positions[code]
	if !ok {
		return model.Position{Code: code}
	}
	cp := *pos
	cp.History = make([]model.TradeRecord, len(pos.History))
	copy(cp.History, pos.History)
	return cp
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
