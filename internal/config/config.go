package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. EXAMSTATS_SOURCES_QUESTIONS
const EnvPrefix = "EXAMSTATS"

// Config represents the complete application configuration
type Config struct {
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Cache     CacheConfig     `yaml:"cache" envconfig:"CACHE"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// SourcesConfig locates the question and response tables
type SourcesConfig struct {
	Questions   string `yaml:"questions" envconfig:"QUESTIONS" validate:"required"`
	Responses   string `yaml:"responses" envconfig:"RESPONSES" validate:"required"`
	IndexColumn bool   `yaml:"index_column" envconfig:"INDEX_COLUMN"`
	Sheet       string `yaml:"sheet" envconfig:"SHEET"`
}

// CacheConfig controls the source cache. Invalidation is always manual.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration   `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load reads the configuration file found by getConfigFilePath (if any)
// and applies environment overrides on top.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile loads defaults, then the YAML file at filePath (skipped when empty),
// then environment variables. Only variables that are actually set override
// earlier layers.
func LoadFile(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalises logging settings
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// Logs are always JSON
	c.Logging.Format = "json"

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/examstats.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"examstats.yaml",
		"configs/examstats.yaml",
		"../configs/examstats.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Questions:   "data/question_config.csv",
			Responses:   "data/response_config.csv",
			IndexColumn: true,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/examstats.log",
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Paths: PathsConfig{
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
	}
}
