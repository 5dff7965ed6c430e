package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside a data directory.
const FileName = "assettrack.yaml"

// EnvPrefix prefixes every environment override, e.g. ASSETTRACK_LOGGING_LEVEL.
const EnvPrefix = "ASSETTRACK"

// Config represents the top-level assettrack.yaml configuration.
type Config struct {
	Database string        `yaml:"database" validate:"required"`
	Logging  LoggingConfig `yaml:"logging"`
	Display  DisplayConfig `yaml:"display"`
	Export   ExportConfig  `yaml:"export"`
	Import   ImportConfig  `yaml:"import"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DisplayConfig holds view defaults.
type DisplayConfig struct {
	CalendarMode   string `yaml:"calendar_mode" split_words:"true" validate:"oneof=total change both"`
	ChartRangeDays int    `yaml:"chart_range_days" split_words:"true" validate:"min=0"` // 0 = all
}

// ExportConfig controls where and how exports are written.
type ExportConfig struct {
	Dir       string `yaml:"dir" validate:"required"`
	Delimiter string `yaml:"delimiter" validate:"oneof=comma tab"`
}

// ImportConfig names the drop folder scanned by "import --scan".
type ImportConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// Load reads an assettrack.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Database: "assettrack.db",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Display: DisplayConfig{
			CalendarMode:   "total",
			ChartRangeDays: 0,
		},
		Export: ExportConfig{
			Dir:       "exports",
			Delimiter: "comma",
		},
		Import: ImportConfig{
			Dir: "import",
		},
	}
}

// Resolve builds the effective config for a data directory: defaults, then
// dir/assettrack.yaml if present, then dir/.env, then ASSETTRACK_* variables.
// Relative paths are made relative to dir.
func Resolve(dir string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Database = under(dir, cfg.Database)
	cfg.Export.Dir = under(dir, cfg.Export.Dir)
	cfg.Import.Dir = under(dir, cfg.Import.Dir)
	return cfg, nil
}

// Validate checks enumerated and required settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func under(dir, p string) string {
	if p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
