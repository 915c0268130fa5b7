package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Schedule  ScheduleConfig  `yaml:"schedule" mapstructure:"schedule"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SerperConfig holds Serper.dev API settings. With no key, search falls
// straight through to the scraping providers.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Country string `yaml:"country" mapstructure:"country"`
}

// SearchConfig configures search orchestration.
type SearchConfig struct {
	MaxSnippets     int     `yaml:"max_snippets" mapstructure:"max_snippets"`
	CallTimeoutSecs int     `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	RatePerSecond   float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Retries         int     `yaml:"retries" mapstructure:"retries"`
}

// ExtractConfig configures profile extraction.
type ExtractConfig struct {
	ConfidenceFloor float64 `yaml:"confidence_floor" mapstructure:"confidence_floor"`
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ScheduleConfig configures update-freshness tiers, in days.
type ScheduleConfig struct {
	ImmediateAgeDays    int     `yaml:"immediate_age_days" mapstructure:"immediate_age_days"`
	ImmediateConfidence float64 `yaml:"immediate_confidence" mapstructure:"immediate_confidence"`
	ShouldAgeDays       int     `yaml:"should_age_days" mapstructure:"should_age_days"`
	ShouldConfidence    float64 `yaml:"should_confidence" mapstructure:"should_confidence"`
	CanAgeDays          int     `yaml:"can_age_days" mapstructure:"can_age_days"`
}

// BatchConfig configures batch acquisition.
type BatchConfig struct {
	MaxConcurrentNames int `yaml:"max_concurrent_names" mapstructure:"max_concurrent_names"`
	NameBudgetSecs     int `yaml:"name_budget_secs" mapstructure:"name_budget_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ALUMNI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "alumni.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("serper.country", "au")
	v.SetDefault("search.max_snippets", 10)
	v.SetDefault("search.call_timeout_secs", 20)
	v.SetDefault("search.rate_per_second", 2)
	v.SetDefault("search.retries", 3)
	v.SetDefault("extract.confidence_floor", 0.5)
	v.SetDefault("extract.temperature", 0.1)
	v.SetDefault("schedule.immediate_age_days", 90)
	v.SetDefault("schedule.immediate_confidence", 0.3)
	v.SetDefault("schedule.should_age_days", 30)
	v.SetDefault("schedule.should_confidence", 0.6)
	v.SetDefault("schedule.can_age_days", 7)
	v.SetDefault("batch.max_concurrent_names", 3)
	v.SetDefault("batch.name_budget_secs", 120)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
