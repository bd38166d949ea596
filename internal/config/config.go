package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the terminal client settings.
type Config struct {
	APIURL         string
	RefreshEvery   time.Duration
	RequestTimeout time.Duration
	LogDir         string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/weekplan/config.toml"
	defaultLogDir         = "~/.local/share/weekplan/logs"
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultRefreshSeconds = 5
	defaultTimeoutSeconds = 10
	defaultLogLevel       = "info"
	logFileName           = "weekplan.log"
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RefreshEvery:   defaultRefreshSeconds * time.Second,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
		LogDir:         mustExpand(defaultLogDir),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the client config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL                string `toml:"api_url"`
		RefreshSeconds        int    `toml:"refresh_seconds"`
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
		LogDir                string `toml:"log_dir"`
		LogLevel              string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.RefreshSeconds > 0 {
		cfg.RefreshEvery = time.Duration(raw.RefreshSeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if _, err := ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// LogPath returns the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
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

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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
