package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: dev
server:
  port: 8080
backend:
  type: kafka
kafka:
  brokers: ["localhost:9092"]
  topic: bars.daily
portfolio:
  weights:
    AAPL: 0.5
    MSFT: 0.5
risk:
  confidence: 0.99
  crisis_windows:
    - name: covid_crash
      start: 2020-02-19T00:00:00Z
      end: 2020-03-23T00:00:00Z
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Risk.Confidence != 0.99 {
		t.Errorf("confidence = %v, want 0.99", cfg.Risk.Confidence)
	}
	if cfg.Risk.PeriodsPerYear != 252 {
		t.Errorf("periods_per_year default = %d, want 252", cfg.Risk.PeriodsPerYear)
	}
	if cfg.Risk.MonteCarlo.Samples != 10000 {
		t.Errorf("monte_carlo.samples default = %d, want 10000", cfg.Risk.MonteCarlo.Samples)
	}
	if cfg.Risk.MonteCarlo.Seed != 42 {
		t.Errorf("monte_carlo.seed default = %d, want 42", cfg.Risk.MonteCarlo.Seed)
	}
	if cfg.Risk.MonteCarlo.Sampling != "normal" {
		t.Errorf("monte_carlo.sampling default = %q, want normal", cfg.Risk.MonteCarlo.Sampling)
	}
	if cfg.Risk.Backtest.Window != 252 {
		t.Errorf("backtest.window default = %d, want 252", cfg.Risk.Backtest.Window)
	}
	if cfg.Portfolio.InitialInvestment != 100000 {
		t.Errorf("initial_investment default = %v, want 100000", cfg.Portfolio.InitialInvestment)
	}
	if cfg.Kafka.ReportTopic != "risk.reports" {
		t.Errorf("report_topic default = %q", cfg.Kafka.ReportTopic)
	}
}

func TestLoadParsesCrisisWindows(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Risk.CrisisWindows) != 1 {
		t.Fatalf("crisis windows = %d, want 1", len(cfg.Risk.CrisisWindows))
	}
	w := cfg.Risk.CrisisWindows[0]
	if w.Name != "covid_crash" {
		t.Errorf("window name = %q", w.Name)
	}
	wantStart := time.Date(2020, 2, 19, 0, 0, 0, 0, time.UTC)
	if !w.Start.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", w.Start, wantStart)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }},
		{"bad backend", func(c *Config) { c.Backend.Type = "postgres" }},
		{"empty weights", func(c *Config) { c.Portfolio.Weights = nil }},
		{"confidence too high", func(c *Config) { c.Risk.Confidence = 1.0 }},
		{"confidence negative", func(c *Config) { c.Risk.Confidence = -0.5 }},
		{"bad sampling", func(c *Config) { c.Risk.MonteCarlo.Sampling = "gamma" }},
		{"inverted crisis window", func(c *Config) {
			c.Risk.CrisisWindows = []CrisisWindow{{
				Name:  "bad",
				Start: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
			}}
		}},
	}
	for _, tc := range cases {
		cfg, err := Load(writeConfig(t, validYAML))
		if err != nil {
			t.Fatalf("%s: load base: %v", tc.name, err)
		}
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND", "clickhouse")
	t.Setenv("KAFKA_TOPIC", "bars.override")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.Type != "clickhouse" {
		t.Errorf("backend = %q, want clickhouse", cfg.Backend.Type)
	}
	if cfg.Kafka.Topic != "bars.override" {
		t.Errorf("topic = %q, want bars.override", cfg.Kafka.Topic)
	}
}
