// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Seed     SeedConfig     `yaml:"seed"`
	Detail   DetailConfig   `yaml:"detail"`
	Search   SearchConfig   `yaml:"search"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds entry store settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"KANAGRAM_DB_PATH" env-default:"kanagram.db"`
}

// SeedConfig holds seed source locations. Empty paths disable a source.
type SeedConfig struct {
	SnapshotPath string `yaml:"snapshot_path" env:"KANAGRAM_SEED_DB"  env-default:"seed/anagram.db"`
	TSVPath      string `yaml:"tsv_path"      env:"KANAGRAM_SEED_TSV" env-default:"seed/anagram.tsv"`
}

// DetailConfig holds candidate detail settings.
type DetailConfig struct {
	SeedPath      string        `yaml:"seed_path"      env:"KANAGRAM_DETAIL_SEED"    env-default:"seed/details.tsv"`
	RemoteBaseURL string        `yaml:"remote_base_url" env:"KANAGRAM_DETAIL_URL"    env-default:"https://jisho.org/api/v1/search/words"`
	RemoteTimeout time.Duration `yaml:"remote_timeout" env:"KANAGRAM_DETAIL_TIMEOUT" env-default:"5s"`
	RemoteEnabled bool          `yaml:"remote_enabled" env:"KANAGRAM_DETAIL_REMOTE"  env-default:"true"`
}

// SearchConfig holds the persisted search settings location.
type SearchConfig struct {
	SettingsPath string `yaml:"settings_path" env:"KANAGRAM_SETTINGS_PATH" env-default:"settings.json"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read environment: %w", err)
	}
	return cfg, nil
}
