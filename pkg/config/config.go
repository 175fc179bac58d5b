// Package config loads pipeline configuration from file, environment and
// defaults via viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Embedding configuration (bi-encoder strategy)
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Reranker configuration (cross-encoder strategy)
	Reranker RerankerConfig `mapstructure:"reranker"`

	// LLM configuration (rewrite stage)
	LLM LLMConfig `mapstructure:"llm"`

	// Scoring configuration (reference selection)
	Scoring ScoringConfig `mapstructure:"scoring"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// CircuitBreaker configuration for embedding calls
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EmbeddingConfig holds bi-encoder configuration.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"` // openai, embedeverything, mock
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	BatchSize int    `mapstructure:"batch_size"`
}

// RerankerConfig holds cross-encoder configuration.
type RerankerConfig struct {
	Provider  string `mapstructure:"provider"` // http, mock
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	BatchSize int    `mapstructure:"batch_size"`
	RawScores bool   `mapstructure:"raw_scores"`
}

// LLMConfig holds the rewrite model configuration.
type LLMConfig struct {
	Model      string  `mapstructure:"model"`
	APIKey     string  `mapstructure:"api_key"`
	BaseURL    string  `mapstructure:"base_url"`
	KeyFile    string  `mapstructure:"key_file"` // service account key for GCS
	MaxRetries int     `mapstructure:"max_retries"`
	RetryDelay float64 `mapstructure:"retry_delay"` // seconds
}

// ScoringConfig holds reference selection parameters.
type ScoringConfig struct {
	Threshold     float64 `mapstructure:"threshold"`
	TopK          int     `mapstructure:"top_k"`
	MaxCandidates int     `mapstructure:"max_candidates"`
}

// TelemetryConfig holds the error-log sink configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// CircuitBreakerConfig guards remote embedding endpoints.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)
	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Embedding defaults: a local model, no credentials needed
	viper.SetDefault("embedding.provider", "embedeverything")
	viper.SetDefault("embedding.model", "BAAI/bge-m3")
	viper.SetDefault("embedding.batch_size", 16)

	// Reranker defaults
	viper.SetDefault("reranker.provider", "http")
	viper.SetDefault("reranker.model", "BAAI/bge-reranker-base")
	viper.SetDefault("reranker.base_url", "http://localhost:8080")
	viper.SetDefault("reranker.batch_size", 32)
	viper.SetDefault("reranker.raw_scores", true)

	// LLM defaults
	viper.SetDefault("llm.model", "gemini-2.5-flash-lite")
	viper.SetDefault("llm.max_retries", 10)
	viper.SetDefault("llm.retry_delay", 3.0)

	// Scoring defaults
	viper.SetDefault("scoring.threshold", 0.5)
	viper.SetDefault("scoring.top_k", 3)
	viper.SetDefault("scoring.max_candidates", 200)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.refpipe/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
		if config.LLM.APIKey == "" {
			config.LLM.APIKey = apiKey
		}
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if keyFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); keyFile != "" && config.LLM.KeyFile == "" {
		config.LLM.KeyFile = keyFile
	}
	if baseURL := os.Getenv("RERANKER_BASE_URL"); baseURL != "" {
		config.Reranker.BaseURL = baseURL
	}
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
