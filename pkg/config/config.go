package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type CrisisWindow struct {
	Name  string    `yaml:"name"`
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"`
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		ReportTopic  string   `yaml:"report_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Provider struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		RatePerSecond  float64       `yaml:"rate_per_second"`
		Burst          int           `yaml:"burst"`
		PollInterval   time.Duration `yaml:"poll_interval"`
	} `yaml:"provider"`
	Portfolio struct {
		Weights           map[string]float64 `yaml:"weights"`
		InitialInvestment float64            `yaml:"initial_investment"`
	} `yaml:"portfolio"`
	Risk struct {
		Confidence     float64 `yaml:"confidence"`
		RiskFreeRate   float64 `yaml:"risk_free_rate"`
		PeriodsPerYear int     `yaml:"periods_per_year"`
		MonteCarlo     struct {
			Samples  int    `yaml:"samples"`
			Seed     int64  `yaml:"seed"`
			Sampling string `yaml:"sampling"` // normal or bootstrap
		} `yaml:"monte_carlo"`
		Projection struct {
			HorizonDays int `yaml:"horizon_days"`
			NumPaths    int `yaml:"num_paths"`
		} `yaml:"projection"`
		Backtest struct {
			Window    int     `yaml:"window"`
			Tolerance float64 `yaml:"tolerance"`
		} `yaml:"backtest"`
		CrisisWindows []CrisisWindow `yaml:"crisis_windows"`
		CacheTTL      time.Duration  `yaml:"cache_ttl"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"risk"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Risk.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Risk.Confidence == 0 {
		c.Risk.Confidence = 0.95
	}
	if c.Risk.PeriodsPerYear == 0 {
		c.Risk.PeriodsPerYear = 252
	}
	if c.Risk.MonteCarlo.Samples == 0 {
		c.Risk.MonteCarlo.Samples = 10000
	}
	if c.Risk.MonteCarlo.Seed == 0 {
		c.Risk.MonteCarlo.Seed = 42
	}
	if c.Risk.MonteCarlo.Sampling == "" {
		c.Risk.MonteCarlo.Sampling = "normal"
	}
	if c.Risk.Projection.HorizonDays == 0 {
		c.Risk.Projection.HorizonDays = 30
	}
	if c.Risk.Projection.NumPaths == 0 {
		c.Risk.Projection.NumPaths = 1000
	}
	if c.Risk.Backtest.Window == 0 {
		c.Risk.Backtest.Window = 252
	}
	if c.Risk.Backtest.Tolerance == 0 {
		c.Risk.Backtest.Tolerance = 0.02
	}
	if c.Portfolio.InitialInvestment == 0 {
		c.Portfolio.InitialInvestment = 100000
	}
	if c.Kafka.ReportTopic == "" {
		c.Kafka.ReportTopic = "risk.reports"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		return fmt.Errorf("backend.type is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if len(c.Portfolio.Weights) == 0 {
		return fmt.Errorf("portfolio.weights cannot be empty")
	}
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		return fmt.Errorf("risk.confidence must be in (0,1), got %v", c.Risk.Confidence)
	}
	if c.Risk.MonteCarlo.Sampling != "normal" && c.Risk.MonteCarlo.Sampling != "bootstrap" {
		return fmt.Errorf("risk.monte_carlo.sampling must be 'normal' or 'bootstrap', got '%s'", c.Risk.MonteCarlo.Sampling)
	}
	for _, w := range c.Risk.CrisisWindows {
		if w.Name == "" || !w.End.After(w.Start) {
			return fmt.Errorf("invalid crisis window '%s'", w.Name)
		}
	}
	return nil
}
