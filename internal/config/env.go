package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// LlamaConfig holds connectivity and polling policy for the LlamaIndex
// split API.
type LlamaConfig struct {
	BaseURL             string
	APIKey              string
	CategoryDescription string
	RequestTimeout      time.Duration
	PollInterval        time.Duration
	PollMaxAttempts     int
}

// StoreConfig defines job record storage. An empty RedisURL selects the
// in-process store.
type StoreConfig struct {
	RedisURL string
	JobTTL   time.Duration
}

// ServerConfig defines the HTTP surface.
type ServerConfig struct {
	Port        string
	MaxUploadMB int
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Axiom   AxiomConfig
	Llama   LlamaConfig
	Store   StoreConfig
	Server  ServerConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/autosplit.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_autosplit",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Llama = LlamaConfig{
		BaseURL:             getEnv("LLAMA_BASE_URL", "https://api.cloud.llamaindex.ai/api/v1"),
		APIKey:              getEnv("LLAMAINDEX_API_KEY", ""),
		CategoryDescription: getEnv("CATEGORY_DESCRIPTION", ""),
		RequestTimeout:      parseDuration(getEnv("LLAMA_REQUEST_TIMEOUT", "60s"), 60*time.Second),
		PollInterval:        parseDuration(getEnv("POLL_INTERVAL", "2s"), 2*time.Second),
		PollMaxAttempts:     parseInt(getEnv("POLL_MAX_ATTEMPTS", "150"), 150),
	}

	cfg.Store = StoreConfig{
		RedisURL: getEnv("REDIS_URL", ""),
		JobTTL:   parseDuration(getEnv("JOB_TTL", "24h"), 24*time.Hour),
	}

	cfg.Server = ServerConfig{
		Port:        getEnv("PORT", "8080"),
		MaxUploadMB: parseInt(getEnv("MAX_UPLOAD_MB", "64"), 64),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
