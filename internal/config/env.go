package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ProxyConfig configures cmd/weekplan-proxy.
type ProxyConfig struct {
	Port               int           `env:"PORT" envDefault:"8080"`
	IP                 string        `env:"IP" envDefault:"0.0.0.0"`
	APIURL             string        `env:"API_URL" envDefault:"http://127.0.0.1:9090"`
	InsecureSkipVerify bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Addr is the listen address.
func (c ProxyConfig) Addr() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(c.Port))
}

// ServiceConfig configures cmd/weekplan-api, the development item service.
type ServiceConfig struct {
	Port         int    `env:"PORT" envDefault:"9090"`
	IP           string `env:"IP" envDefault:"127.0.0.1"`
	DBPath       string `env:"DB_PATH" envDefault:"weekplan.db"`
	AppVersion   string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Addr is the listen address.
func (c ServiceConfig) Addr() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(c.Port))
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadProxy reads ProxyConfig from the environment.
func LoadProxy() (ProxyConfig, error) {
	var cfg ProxyConfig
	if err := ParseEnv(&cfg); err != nil {
		return ProxyConfig{}, err
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return ProxyConfig{}, fmt.Errorf("parse env: API_URL is empty")
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return ProxyConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadService reads ServiceConfig from the environment.
func LoadService() (ServiceConfig, error) {
	var cfg ServiceConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServiceConfig{}, err
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return ServiceConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
