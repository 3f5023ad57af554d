package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
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

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// ExtractConfig holds defaults for the extraction flags.
type ExtractConfig struct {
	Method        string
	MinChars      int
	Jobs          int
	PageSeparator string
}

// SourceConfig defines how remote references are fetched.
type SourceConfig struct {
	HTTPTimeout time.Duration
	TempMaxAge  time.Duration
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Axiom   AxiomConfig
	Extract ExtractConfig
	Source  SourceConfig
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "warn"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", "true")),
		File:       getEnv("LOG_FILE", ""),
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
		Dataset:       baseDataset + "_pdf2text",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Extract = ExtractConfig{
		Method:        getEnv("PDF2TEXT_METHOD", "auto"),
		MinChars:      parseInt(getEnv("PDF2TEXT_MIN_CHARS", "1"), 1),
		Jobs:          parseInt(getEnv("PDF2TEXT_JOBS", "1"), 1),
		PageSeparator: unescape(getEnv("PDF2TEXT_PAGE_SEPARATOR", `\n`)),
	}
	if cfg.Extract.MinChars <= 0 {
		cfg.Extract.MinChars = 1
	}
	if cfg.Extract.Jobs <= 0 {
		cfg.Extract.Jobs = 1
	}

	cfg.Source = SourceConfig{
		HTTPTimeout: parseDuration(getEnv("HTTP_TIMEOUT", "60s"), 60*time.Second),
		TempMaxAge:  parseDuration(getEnv("TEMP_MAX_AGE", "24h"), 24*time.Hour),
		S3Region:    getEnv("S3_REGION", getEnv("AWS_REGION", "")),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
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

// unescape turns the two-character sequences \n, \t and \f into control
// characters so separators can be given on one env line.
func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\f`, "\f").Replace(s)
}
