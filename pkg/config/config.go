package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

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
	Logging struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"` // json or console
		Output     string `yaml:"output"` // stdout, stderr, or a file path (rotated)
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	Decision struct {
		ParseURL      string        `yaml:"parse_url"`
		ComparisonURL string        `yaml:"comparison_url"`
		Timeout       time.Duration `yaml:"timeout"`
		RetryAttempts int           `yaml:"retry_attempts"`
	} `yaml:"decision"`
	Simulation struct {
		Paths         int           `yaml:"paths"`
		DailyDrift    float64       `yaml:"daily_drift"`
		DefaultVolPct float64       `yaml:"default_vol_pct"`
		QueueSize     int           `yaml:"queue_size"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
	} `yaml:"simulation"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		MemoryMaxSize int `yaml:"memory_max_size"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		EpisodeTopic string   `yaml:"episode_topic"`
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
	} `yaml:"kafka"`
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
	if v := os.Getenv("DECISION_PARSE_URL"); v != "" {
		c.Decision.ParseURL = v
	}
	if v := os.Getenv("DECISION_COMPARISON_URL"); v != "" {
		c.Decision.ComparisonURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_EPISODE_TOPIC"); v != "" {
		c.Kafka.EpisodeTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation.Paths == 0 {
		c.Simulation.Paths = 1000
	}
	if c.Simulation.DailyDrift == 0 {
		c.Simulation.DailyDrift = 0.0001
	}
	if c.Simulation.DefaultVolPct == 0 {
		c.Simulation.DefaultVolPct = 18.4
	}
	if c.Simulation.QueueSize == 0 {
		c.Simulation.QueueSize = 16
	}
	if c.Simulation.CacheTTL == 0 {
		c.Simulation.CacheTTL = 10 * time.Minute
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 500
	}
	if c.Decision.Timeout == 0 {
		c.Decision.Timeout = 5 * time.Second
	}
	if c.Decision.RetryAttempts == 0 {
		c.Decision.RetryAttempts = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Decision.ParseURL == "" {
		return fmt.Errorf("decision.parse_url is required")
	}
	if c.Simulation.Paths < 1 {
		return fmt.Errorf("simulation.paths must be positive, got %d", c.Simulation.Paths)
	}
	if c.Simulation.DefaultVolPct < 0 {
		return fmt.Errorf("simulation.default_vol_pct must be non-negative, got %.2f", c.Simulation.DefaultVolPct)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.EpisodeTopic == "" {
		return fmt.Errorf("kafka.episode_topic is required when kafka is enabled")
	}
	return nil
}
