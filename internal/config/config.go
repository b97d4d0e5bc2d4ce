package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/kitchen-nadal/kitchen/internal/api"
)

// EnvVar names the environment variable selecting the build mode.
const EnvVar = "KITCHEN_ENV"

// Config holds the settings Kitchen reads at startup.
type Config struct {
	Env             api.Environment
	RefreshInterval time.Duration
	StaleTime       time.Duration
	LogFile         string
	LogLevel        string
}

const (
	defaultConfigPath      = "~/.config/kitchen/config.toml"
	defaultLogFile         = "~/.local/state/kitchen/kitchen.log"
	defaultLogLevel        = "info"
	defaultRefreshInterval = 60 * time.Second
	defaultStaleTime       = 30 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Env:             api.DefaultEnvironment,
		RefreshInterval: defaultRefreshInterval,
		StaleTime:       defaultStaleTime,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
	}
}

// Load reads the config file at path (the default location when blank),
// falling back to defaults when it is missing. An optional .env in the
// working directory is loaded first; KITCHEN_ENV then overrides the file's env.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	var raw struct {
		Env            string `toml:"env"`
		RefreshSeconds int    `toml:"refresh_seconds"`
		StaleSeconds   int    `toml:"stale_seconds"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	envName := strings.TrimSpace(raw.Env)
	if fromEnv := strings.TrimSpace(os.Getenv(EnvVar)); fromEnv != "" {
		envName = fromEnv
	}
	if cfg.Env, err = api.ParseEnvironment(envName); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	if raw.RefreshSeconds > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshSeconds) * time.Second
	}
	if raw.StaleSeconds > 0 {
		cfg.StaleTime = time.Duration(raw.StaleSeconds) * time.Second
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	return cfg, nil
}

// APIEndpoint returns the recipes base endpoint for the configured env.
func (c Config) APIEndpoint() (string, error) {
	env := c.Env
	if env == "" {
		env = api.DefaultEnvironment
	}
	return api.Endpoint(env)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
