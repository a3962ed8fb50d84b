package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	UI      UIConfig      `mapstructure:"ui"`
}

// APIConfig points at the analysis service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartDir string `mapstructure:"start_dir"`
}

const (
	DefaultBaseURL = "https://ad-analysis.trou.hackclub.app/api"
	DefaultTimeout = 30 * time.Second
)

// flag name -> config key
var flagKeys = map[string]string{
	"base-url":     "api.base_url",
	"timeout":      "api.timeout",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"metrics-addr": "metrics.addr",
	"dir":          "ui.start_dir",
}

// Flags registers the command line overrides. Unset flags never shadow file or
// env values.
func Flags(set *pflag.FlagSet) {
	set.String("base-url", "", "analysis service base URL")
	set.Duration("timeout", 0, "request timeout")
	set.String("log-level", "", "log level (debug, info, warn, error)")
	set.String("log-file", "", "log file path")
	set.String("metrics-addr", "", "serve Prometheus metrics on this address")
	set.String("dir", "", "directory the file picker starts in")
}

// Load reads configuration from .env, file, env and flags, lowest precedence
// first. Env var overrides use prefix ADLENS_. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".local", "state", "adlens", "adlens.log"))
	v.SetDefault("metrics.addr", "")
	v.SetDefault("ui.start_dir", workingDir())

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ADLENS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "adlens"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ADLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// the web client's variable still works as a fallback
	if err := v.BindEnv("api.base_url", "ADLENS_API_BASE_URL", "NEXT_PUBLIC_API_URL"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	// read config file if present
	if err := v.ReadInConfig(); err != nil && !configMissing(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	return c, nil
}

// Path is the file Save writes: $ADLENS_CONFIG, else the default location Load
// searches.
func Path() string {
	if path := os.Getenv("ADLENS_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "adlens", "config.toml")
}

// Save writes the provided config to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	v.Set("ui.start_dir", cfg.UI.StartDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func configMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
