// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"lena-bank/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string     `yaml:"server_port"`
	LogLevel   string     `yaml:"log_level"`
	DB         db.Config  `yaml:"db"`
	Bank       BankConfig `yaml:"bank"`
}

// BankConfig holds the policy knobs of the ledger core.
type BankConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`   // credential attempts per operation
	HistoryLimit  int           `yaml:"history_limit"`  // size of the "recent transactions" view
	HistoryWindow time.Duration `yaml:"history_window"` // trailing window of the "last N days" view
	BcryptCost    int           `yaml:"bcrypt_cost"`
	AutoMigrate   bool          `yaml:"auto_migrate"`
}

// Default returns the configuration used when neither a file nor the environment says otherwise.
func Default() *AppConfig {
	return &AppConfig{
		ServerPort: "8080",
		LogLevel:   "info",
		DB: db.Config{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "password",
			DBName:   "bank",
			SSLMode:  "disable",
		},
		Bank: BankConfig{
			MaxAttempts:   3,
			HistoryLimit:  5,
			HistoryWindow: 30 * 24 * time.Hour,
			BcryptCost:    10,
			AutoMigrate:   true,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (later wins).
// An empty path falls back to LENA_CONFIG; a missing file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("LENA_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.DBName, "DB_NAME")
	setString(&cfg.DB.SSLMode, "DB_SSLMODE")

	for key, dst := range map[string]*int{
		"DB_PORT":           &cfg.DB.Port,
		"BANK_MAX_ATTEMPTS": &cfg.Bank.MaxAttempts,
		"BANK_BCRYPT_COST":  &cfg.Bank.BcryptCost,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects configurations the core cannot run with.
func (c *AppConfig) Validate() error {
	if c.Bank.MaxAttempts < 1 {
		return fmt.Errorf("bank.max_attempts must be at least 1, got %d", c.Bank.MaxAttempts)
	}
	if c.Bank.HistoryLimit < 1 {
		return fmt.Errorf("bank.history_limit must be at least 1, got %d", c.Bank.HistoryLimit)
	}
	if c.Bank.HistoryWindow <= 0 {
		return fmt.Errorf("bank.history_window must be positive, got %s", c.Bank.HistoryWindow)
	}
	return nil
}
