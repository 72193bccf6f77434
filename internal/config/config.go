package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Game holds all configuration for the adventure core.
// The value is built once at startup and passed by value into the
// character, enemy, combat and save layers.
type Game struct {
	LogLevel    string `yaml:"log_level" env:"SHIRE_LOG_LEVEL"`
	CatalogPath string `yaml:"catalog_path" env:"SHIRE_CATALOG_PATH"` // empty = embedded catalog

	Character Character      `yaml:"character"`
	Combat    Combat         `yaml:"combat"`
	Enemy     Enemy          `yaml:"enemy"`
	Save      Save           `yaml:"save"`
	Database  DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
// Used only when Save.Backend is "postgres".
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"SHIRE_DB_HOST"`
	Port     int    `yaml:"port" env:"SHIRE_DB_PORT"`
	User     string `yaml:"user" env:"SHIRE_DB_USER"`
	Password string `yaml:"password" env:"SHIRE_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"SHIRE_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"SHIRE_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultGame returns Game config with the stock rules.
func DefaultGame() Game {
	return Game{
		LogLevel:  "info",
		Character: DefaultCharacter(),
		Combat:    DefaultCombat(),
		Enemy:     DefaultEnemy(),
		Save:      DefaultSave(),
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "shire",
			Password: "shire",
			DBName:   "shire",
			SSLMode:  "disable",
		},
	}
}

// LoadGame loads game config from a YAML file and applies SHIRE_* environment
// overrides on top. If the file doesn't exist, defaults are used.
func LoadGame(path string) (Game, error) {
	cfg := DefaultGame()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
