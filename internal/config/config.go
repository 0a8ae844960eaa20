// Package config loads the ledger configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	Ledger  LedgerConfig
	Storage StorageConfig
	Kafka   KafkaConfig
	Debug   bool
}

// LedgerConfig holds the limits applied to the in-memory ledger.
type LedgerConfig struct {
	Capacity         int
	MaxIdentifierLen int
	Currency         string
}

// StorageConfig selects and configures the record backend.
type StorageConfig struct {
	Backend     string
	DataFile    string
	AtomicSave  bool
	DatabaseURL string
	SQLitePath  string
	Table       string
}

// KafkaConfig configures the optional event publisher. No brokers means events are dropped.
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	Compression string
}

// Load loads configuration from environment variables.
// It loads .env from the current directory if present, or the given file,
// which must then exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	capacity, err := parseIntEnv("LEDGER_CAPACITY", 100)
	if err != nil {
		return nil, err
	}
	maxIdentLen, err := parseIntEnv("LEDGER_MAX_IDENTIFIER_LEN", 49)
	if err != nil {
		return nil, err
	}
	atomicSave, err := parseBoolEnv("LEDGER_ATOMIC_SAVE", false)
	if err != nil {
		return nil, err
	}
	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Ledger: LedgerConfig{
			Capacity:         capacity,
			MaxIdentifierLen: maxIdentLen,
			Currency:         strings.ToUpper(getEnvOrDefault("LEDGER_CURRENCY", "PHP")),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnvOrDefault("LEDGER_BACKEND", BackendFile)),
			DataFile:    getEnvOrDefault("LEDGER_DATA_FILE", "accounts.txt"),
			AtomicSave:  atomicSave,
			DatabaseURL: os.Getenv("LEDGER_DATABASE_URL"),
			SQLitePath:  getEnvOrDefault("LEDGER_SQLITE_PATH", "ledger.db"),
			Table:       getEnvOrDefault("LEDGER_TABLE", "ledger_accounts"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:       getEnvOrDefault("KAFKA_TOPIC", "ledger.account-events"),
			Compression: getEnvOrDefault("KAFKA_COMPRESSION", "none"),
		},
		Debug: debug,
	}

	return config, nil
}

// Validate checks that the selected backend has what it needs and that the
// ledger limits are usable.
func (c *Config) Validate() error {
	var problems []string

	if c.Ledger.Capacity <= 0 {
		problems = append(problems, "LEDGER_CAPACITY must be positive")
	}
	if c.Ledger.MaxIdentifierLen <= 0 {
		problems = append(problems, "LEDGER_MAX_IDENTIFIER_LEN must be positive")
	}
	if money.GetCurrency(c.Ledger.Currency) == nil {
		problems = append(problems, fmt.Sprintf("LEDGER_CURRENCY %q is not a known currency code", c.Ledger.Currency))
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			problems = append(problems, "LEDGER_DATA_FILE is required for the file backend")
		}
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			problems = append(problems, "LEDGER_DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			problems = append(problems, "LEDGER_SQLITE_PATH is required for the sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown LEDGER_BACKEND %q", c.Storage.Backend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s\nPlease check your .env file or environment variables", strings.Join(problems, "; "))
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
