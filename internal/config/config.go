// Package config handles reading and writing ~/.taskdeck/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version int         `yaml:"version"`
	API     APIConfig   `yaml:"api"`
	Store   StoreConfig `yaml:"store"`
	Log     LogConfig   `yaml:"log"`
}

// APIConfig points the client at the remote task API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the per-request timeout
}

// StoreConfig selects where the session token is persisted.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "bolt" | "memory"
	Path   string `yaml:"path"`   // empty: derived from Driver, see StorePath
}

// LogConfig controls the diagnostic and activity logs.
type LogConfig struct {
	Level        string `yaml:"level"`
	Encoding     string `yaml:"encoding"` // "json" | "console"
	Path         string `yaml:"path"`
	ActivityPath string `yaml:"activity_path"`
}

const (
	configDir  = ".taskdeck"
	configFile = "config.yaml"

	// DefaultBaseURL is the hosted task API the client talks to out of the box.
	DefaultBaseURL = "https://task-manager-backend-1-khqc.onrender.com"
)

// Dir returns the taskdeck state directory under home.
func Dir(home string) string {
	return filepath.Join(home, configDir)
}

// Path returns the config file path under home.
func Path(home string) string {
	return filepath.Join(Dir(home), configFile)
}

// ReadConfig reads config.yaml from the taskdeck directory under home.
// Returns an error if the file is not found or YAML is malformed.
// Fields missing from the file keep their default values.
func ReadConfig(home string) (*Config, error) {
	return readFile(Path(home), DefaultConfig(home))
}

func readFile(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to config.yaml under home.
// Creates the taskdeck directory if it does not exist.
func WriteConfig(home string, cfg *Config) error {
	if err := os.MkdirAll(Dir(home), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(Path(home), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
// State files live under home/.taskdeck.
func DefaultConfig(home string) *Config {
	dir := Dir(home)
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Log: LogConfig{
			Level:        "info",
			Encoding:     "json",
			Path:         filepath.Join(dir, "taskdeck.log"),
			ActivityPath: filepath.Join(dir, "activity.jsonl"),
		},
	}
}

// StorePath returns the session store file. An explicit Store.Path wins;
// otherwise each driver gets its own file under home/.taskdeck.
func (c *Config) StorePath(home string) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	name := "storage.db"
	if c.Store.Driver == "bolt" {
		name = "storage.bolt"
	}
	return filepath.Join(Dir(home), name)
}

// Load resolves the effective configuration: defaults, then the config file
// at path (if it exists), then environment variables. An empty path means
// the default location under home. An optional .env in the working
// directory is loaded first.
func Load(home, path string) (*Config, error) {
	_ = godotenv.Load(".env")

	if path == "" {
		path = Path(home)
	}

	cfg, err := readFile(path, DefaultConfig(home))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig(home)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.API.BaseURL = getString("TASKDECK_API_URL", cfg.API.BaseURL)
	cfg.API.Timeout = getDuration("TASKDECK_API_TIMEOUT", cfg.API.Timeout)
	cfg.Store.Driver = getString("TASKDECK_STORE", cfg.Store.Driver)
	cfg.Store.Path = getString("TASKDECK_STORE_PATH", cfg.Store.Path)
	cfg.Log.Level = getString("TASKDECK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Encoding = getString("TASKDECK_LOG_ENCODING", cfg.Log.Encoding)
	cfg.Log.Path = getString("TASKDECK_LOG_PATH", cfg.Log.Path)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
