package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FundConfig is the static metadata for one watched fund.
type FundConfig struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Keyword  string `yaml:"keyword"`  // sector keyword for the news search
	Strategy string `yaml:"strategy"` // core | dividend | satellite
}

// Config holds all application configuration.
type Config struct {
	Funds  []FundConfig `yaml:"funds"`
	Invest struct {
		BaseAmount float64 `yaml:"base_amount"`
		DailyCap   float64 `yaml:"daily_cap"`
	} `yaml:"invest"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
	SMTP struct {
		Server   string `yaml:"server"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		To       string `yaml:"to"`
	} `yaml:"smtp"`
	Ledger struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"ledger"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Worker struct {
		Concurrency   int `yaml:"concurrency"`
		JitterSeconds int `yaml:"jitter_seconds"`
	} `yaml:"worker"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("BASE_AMOUNT"); v != "" {
		var amount float64
		if _, err := fmt.Sscanf(v, "%f", &amount); err == nil {
			cfg.Invest.BaseAmount = amount
		}
	}

	// Defaults
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 14 * * 1-5" // trading days, before the close
	}
	if cfg.Invest.BaseAmount == 0 {
		cfg.Invest.BaseAmount = 500
	}
	if cfg.Invest.DailyCap == 0 {
		cfg.Invest.DailyCap = 2000
	}
	if cfg.Ledger.StateFile == "" {
		cfg.Ledger.StateFile = "data/positions.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fund_advisor.db"
	}
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = 3
	}
	if cfg.Worker.JitterSeconds == 0 {
		cfg.Worker.JitterSeconds = 5
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Funds) == 0 {
		return fmt.Errorf("at least one fund is required")
	}
	for i, f := range c.Funds {
		if f.Code == "" {
			return fmt.Errorf("funds[%d].code is required", i)
		}
	}
	if c.Invest.BaseAmount <= 0 {
		return fmt.Errorf("invest.base_amount must be positive")
	}
	if c.Invest.DailyCap < c.Invest.BaseAmount {
		return fmt.Errorf("invest.daily_cap must be at least invest.base_amount")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("worker.concurrency must be at least 1")
	}
	return nil
}
