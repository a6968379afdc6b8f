package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig locates the local SQLite database.
type DatabaseConfig struct {
	// Path is the database file; "~" expands to the home directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// SchoolConfig holds details about the TPQ itself.
type SchoolConfig struct {
	// Name is shown in the header and on reports.
	Name string `mapstructure:"name" yaml:"name"`

	// CodePrefix is prepended to student codes suggested by the add form.
	CodePrefix string `mapstructure:"code_prefix" yaml:"code_prefix"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls the application log.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	School   SchoolConfig   `mapstructure:"school" yaml:"school"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/tpq, falling back to the working directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tpq")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tpq/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: filepath.Join(configDir(), "tpq.db")},
		School:   SchoolConfig{Name: "TPQ", CodePrefix: "STD"},
		Display:  DisplayConfig{Theme: "default"},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(configDir(), "tpq.log"),
		},
	}
}

// NewViper returns a viper instance preloaded with defaults and TPQ_*
// environment overrides (e.g. TPQ_DATABASE_PATH).
func NewViper() *viper.Viper {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tpq")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("school.name", def.School.Name)
	v.SetDefault("school.code_prefix", def.School.CodePrefix)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus env overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	return LoadConfigWith(NewViper(), path)
}

// LoadConfigWith reads the file at path into v, which may already carry
// bound flags, and unmarshals the merged result.
func LoadConfigWith(v *viper.Viper, path string) (*AppConfig, error) {
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("school", cfg.School)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
