package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"2s"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Logging struct {
		Level     string `yaml:"level" default:"info"`
		Format    string `yaml:"format" default:"console"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled   bool          `yaml:"enabled"`
			Topic     string        `yaml:"topic" default:"agripull.logs"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			Threshold int           `yaml:"threshold" default:"100"`
		} `yaml:"collector"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Data struct {
		Source   string        `yaml:"source" default:"file"` // file or clickhouse
		Path     string        `yaml:"path" default:"data/vegetable_prices.xlsx"`
		Sheet    string        `yaml:"sheet"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"1m"`
	} `yaml:"data"`
	Model struct {
		Path            string        `yaml:"path" default:"models/price_model.json.gz"`
		Trees           int           `yaml:"trees" default:"100"`
		MaxDepth        int           `yaml:"max_depth" default:"20"`
		MinSamplesSplit int           `yaml:"min_samples_split" default:"2"`
		Seed            int64         `yaml:"seed" default:"42"`
		TestFraction    float64       `yaml:"test_fraction" default:"0.2"`
		Workers         int           `yaml:"workers"`
		WarmOnStart     bool          `yaml:"warm_on_start"`
		LockTTL         time.Duration `yaml:"lock_ttl" default:"5m"`
		LockWait        time.Duration `yaml:"lock_wait" default:"2m"`
	} `yaml:"model"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps" default:"5"`
		Burst   int     `yaml:"burst" default:"10"`
	} `yaml:"rate_limit"`
	Recommender struct {
		URL      string        `yaml:"url"`
		Timeout  time.Duration `yaml:"timeout" default:"3s"`
		Attempts int           `yaml:"attempts" default:"3"`
	} `yaml:"recommender"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		TrainingTopic string   `yaml:"training_topic" default:"agripull.training"`
		ForecastTopic string   `yaml:"forecast_topic" default:"agripull.forecasts"`
		RequiredAcks  int      `yaml:"required_acks" default:"-1"`
		Compression   string   `yaml:"compression" default:"gzip"`
		Producer      struct {
			MaxAttempts      int           `yaml:"max_attempts" default:"3"`
			Linger           time.Duration `yaml:"linger" default:"1s"`
			BatchBytes       int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize        int           `yaml:"batch_size" default:"100"`
			WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
			Async            bool          `yaml:"async"`
			AutoCreateTopics bool          `yaml:"auto_create_topics"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"agripull"`
		Table            string        `yaml:"table" default:"market_prices"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"agripull"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

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
	if v := os.Getenv("AGRIPULL_DATA_PATH"); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv("AGRIPULL_MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := os.Getenv("AGRIPULL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("RECOMMENDER_URL"); v != "" {
		c.Recommender.URL = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	switch c.Data.Source {
	case "file":
		if c.Data.Path == "" {
			return fmt.Errorf("data.path is required for the file source")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for the clickhouse source")
		}
	default:
		return fmt.Errorf("data.source must be 'file' or 'clickhouse', got '%s'", c.Data.Source)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path is required")
	}
	if c.Model.TestFraction < 0 || c.Model.TestFraction >= 1 {
		return fmt.Errorf("model.test_fraction must be in [0, 1), got %v", c.Model.TestFraction)
	}
	if c.Logging.Collector.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("logging.collector requires kafka.brokers")
	}
	return nil
}
