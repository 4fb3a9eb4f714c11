package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for concurrent readers while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			code           TEXT NOT NULL,
			name           TEXT,
			price          REAL,
			quant_score    INTEGER,
			final_score    INTEGER,
			signal         TEXT,
			adjustment     INTEGER,
			val_multiplier REAL,
			label          TEXT,
			amount         INTEGER,
			sell_value     REAL,
			shares         REAL,
			held_days      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_ts ON evaluations(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_code ON evaluations(code)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			code      TEXT NOT NULL,
			name      TEXT,
			side      TEXT,
			price     REAL,
			value     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_code ON trades(code)`,

		`CREATE TABLE IF NOT EXISTS cycle_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			code      TEXT,
			name      TEXT,
			reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON cycle_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(e *Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, code, name, price, quant_score, final_score, signal,
		 adjustment, val_multiplier, label, amount, sell_value, shares, held_days)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), e.Code, e.Name, e.Price, e.QuantScore, e.FinalScore,
		e.Signal, e.Adjustment, e.ValMultiplier, e.Label, e.Amount, e.SellValue,
		e.Shares, e.HeldDays,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(t *TradeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(timestamp, code, name, side, price, value)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), t.Code, t.Name, t.Side, t.Price, t.Value,
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(f *Failure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_failures
		(timestamp, code, name, reason)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), f.Code, f.Name, f.Reason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
