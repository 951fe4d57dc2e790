package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the runtime configuration. Values come from the defaults below,
// then the optional TOML file named by WEDPLAN_CONFIG, then the environment.
type Config struct {
	// HTTP Server
	Port           string  `toml:"port"`
	RateLimitRPS   float64 `toml:"rate_limit_rps"`
	RateLimitBurst int     `toml:"rate_limit_burst"`

	// Backend selection
	DataBackend    string `toml:"data_backend"`
	SQLiteDBPath   string `toml:"sqlite_db_path"`
	SeedDir        string `toml:"seed_dir"`
	MemoryMaxBytes int    `toml:"memory_max_bytes"`

	// AMQP
	AMQPURL      string `toml:"amqp_url"`
	AMQPExchange string `toml:"amqp_exchange"`
	AMQPQueue    string `toml:"amqp_queue"`

	// Mirrors
	MirrorPostgresURL        string `toml:"mirror_postgres_url"`
	GoogleSpreadsheetID      string `toml:"google_spreadsheet_id"`
	GoogleBudgetSheet        string `toml:"google_budget_sheet"`
	GoogleGuestsSheet        string `toml:"google_guests_sheet"`
	GoogleServiceAccountJSON string `toml:"google_service_account_json"`
	GoogleServiceAccountFile string `toml:"google_service_account_file"`

	// Worker
	SyncBatchSize  int           `toml:"sync_batch_size"`
	SyncInterval   time.Duration `toml:"-"`
	SyncMaxRetries int           `toml:"sync_max_retries"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	ViewCacheSize int `toml:"view_cache_size"`
}

// fileConfig carries the fields whose TOML form differs from the Go type.
type fileConfig struct {
	Config
	SyncInterval string `toml:"sync_interval"`
}

func defaults() Config {
	return Config{
		Port:           "8081",
		RateLimitRPS:   5,
		RateLimitBurst: 20,

		DataBackend:    "sqlite",
		SQLiteDBPath:   "./data/wedplan.db",
		SeedDir:        "data",
		MemoryMaxBytes: 5 << 20,

		AMQPExchange: "wedplan",
		AMQPQueue:    "mirror_document",

		GoogleBudgetSheet: "Budget",
		GoogleGuestsSheet: "Guests",

		SyncBatchSize:  50,
		SyncInterval:   30 * time.Second,
		SyncMaxRetries: 5,

		LogLevel:  "info",
		LogFormat: "text",

		ViewCacheSize: 64,
	}
}

// Load builds the configuration. A TOML file that cannot be read or parsed is
// an error; a missing WEDPLAN_CONFIG just means no file.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("WEDPLAN_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)

	cfg.DataBackend = getEnv("DATA_BACKEND", cfg.DataBackend)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.SeedDir = getEnv("SEED_DIR", cfg.SeedDir)
	cfg.MemoryMaxBytes = getEnvInt("MEMORY_MAX_BYTES", cfg.MemoryMaxBytes)

	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.AMQPQueue = getEnv("AMQP_QUEUE", cfg.AMQPQueue)

	cfg.MirrorPostgresURL = getEnv("MIRROR_POSTGRES_URL", cfg.MirrorPostgresURL)
	cfg.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", cfg.GoogleSpreadsheetID)
	cfg.GoogleBudgetSheet = getEnv("GOOGLE_BUDGET_SHEET", cfg.GoogleBudgetSheet)
	cfg.GoogleGuestsSheet = getEnv("GOOGLE_GUESTS_SHEET", cfg.GoogleGuestsSheet)
	cfg.GoogleServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", cfg.GoogleServiceAccountJSON)
	cfg.GoogleServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", cfg.GoogleServiceAccountFile)

	cfg.SyncBatchSize = getEnvInt("SYNC_BATCH_SIZE", cfg.SyncBatchSize)
	cfg.SyncInterval = getEnvDuration("SYNC_INTERVAL", cfg.SyncInterval)
	cfg.SyncMaxRetries = getEnvInt("SYNC_MAX_RETRIES", cfg.SyncMaxRetries)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.ViewCacheSize = getEnvInt("VIEW_CACHE_SIZE", cfg.ViewCacheSize)

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	fc := fileConfig{Config: *cfg}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if fc.SyncInterval != "" {
		d, err := time.ParseDuration(fc.SyncInterval)
		if err != nil {
			return fmt.Errorf("parsing config: sync_interval: %w", err)
		}
		fc.Config.SyncInterval = d
	}
	*cfg = fc.Config
	return nil
}

// MirrorsEnabled reports whether any mirror is configured.
func (c *Config) MirrorsEnabled() bool {
	return c.MirrorPostgresURL != "" || c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "memory" && c.MemoryMaxBytes < 0 {
		errors = append(errors, fmt.Sprintf("invalid memory max bytes %d: must not be negative", c.MemoryMaxBytes))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.DataBackend != "sqlite" {
			errors = append(errors, "AMQP notifications require the sqlite backend")
		}
	}

	if c.MirrorPostgresURL != "" {
		if parsedURL, err := url.Parse(c.MirrorPostgresURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid mirror Postgres URL: %v", err))
		} else if parsedURL.Scheme != "postgres" && parsedURL.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid mirror Postgres URL scheme '%s': must be 'postgres' or 'postgresql'", parsedURL.Scheme))
		}
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleBudgetSheet == "" {
			errors = append(errors, "Google budget sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleGuestsSheet == "" {
			errors = append(errors, "Google guests sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate worker configuration
	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if c.SyncMaxRetries < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync max retries %d: must be at least 1", c.SyncMaxRetries))
	}

	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be positive", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.ViewCacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must not be negative", c.ViewCacheSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
