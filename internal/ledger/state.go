package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"FundAdvisor/internal/model"
)

// state is the whole persisted ledger: one position per fund code.
type state struct {
	Positions map[string]*model.Position `json:"positions"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// loadState reads the ledger from a JSON file. A missing or corrupt file is
// recovered by starting empty: losing the ledger beats crash-looping.
func loadState(filePath string) map[string]*model.Position {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] read ledger %s: %v, starting empty", filePath, err)
		}
		return map[string]*model.Position{}
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("[WARN] ledger %s is corrupt: %v, starting empty", filePath, err)
		return map[string]*model.Position{}
	}
	if s.Positions == nil {
		s.Positions = map[string]*model.Position{}
	}
	return s.Positions
}

// saveState rewrites the whole ledger atomically: write to a temp file in
// the same directory, then rename over the target.
func saveState(filePath string, positions map[string]*model.Position) error {
	data, err := json.MarshalIndent(&state{Positions: positions, UpdatedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
