package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment variables that override the config file.
const (
	EnvGrossSalary = "CBUDGET_GROSS_SALARY"
	EnvTheme       = "CBUDGET_THEME"
	EnvAddr        = "CBUDGET_ADDR"
)

// Config holds all cbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Snapshot   SnapshotConfig   `toml:"snapshot"`
}

// GeneralConfig holds income and plan preferences.
type GeneralConfig struct {
	GrossSalary decimal.Decimal `toml:"gross_salary"`
	Currency    string          `toml:"currency"`
	PlanFile    string          `toml:"plan_file,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SnapshotConfig holds snapshot store settings.
type SnapshotConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			GrossSalary: decimal.RequireFromString("4030.00"),
			Currency:    "RM",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cbudget")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cbudget")
}

// SnapshotPath returns the configured snapshot database path.
func (c Config) SnapshotPath() string {
	if c.Snapshot.DBPath != "" {
		return c.Snapshot.DBPath
	}
	return filepath.Join(DataDir(), "snapshots.db")
}

// LoadEnvFile loads a .env file from the working directory if present.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv(EnvGrossSalary); v != "" {
		gross, err := decimal.NewFromString(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", EnvGrossSalary, err)
		}
		cfg.General.GrossSalary = gross
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
