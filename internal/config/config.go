// Package config loads widget and stand-in service settings from an optional
// YAML file, then overlays DALE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceMemory = "memory"
	SourceEnv    = "env"
	SourceFile   = "file"
	SourceSSM    = "ssm"

	EnvPrefix = "DALE"
)

type Config struct {
	Endpoint    EndpointConfig    `yaml:"endpoint"`
	Credentials CredentialsConfig `yaml:"credentials"`
	// Page is the location the widget believes it is on, e.g. /app/marketplace.html.
	Page      string          `yaml:"page"`
	LogLevel  string          `yaml:"log_level"`
	DevServer DevServerConfig `yaml:"devserver"`
}

type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
	Path    string `yaml:"path"`
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout"`
}

type CredentialsConfig struct {
	Source      string            `yaml:"source"`
	PrimaryKey  string            `yaml:"primary_key"`
	FallbackKey string            `yaml:"fallback_key"`
	File        string            `yaml:"file"`
	ParamPrefix string            `yaml:"param_prefix"`
	EnvPrefix   string            `yaml:"env_prefix"`
	Values      map[string]string `yaml:"values"`
}

type DevServerConfig struct {
	Addr       string   `yaml:"addr"`
	AuditTable string   `yaml:"audit_table"`
	Model      string   `yaml:"model"`
	Tokens     []string `yaml:"tokens"`
}

func DefaultConfig() Config {
	return Config{
		Endpoint: EndpointConfig{
			BaseURL: "http://localhost:8000",
			Path:    "/api/ai/dale/ask/",
		},
		Credentials: CredentialsConfig{
			Source:      SourceEnv,
			PrimaryKey:  "access_token",
			FallbackKey: "token",
			EnvPrefix:   EnvPrefix,
		},
		Page:     "/",
		LogLevel: "info",
		DevServer: DevServerConfig{
			Addr: ":8000",
		},
	}
}

// Load reads path when it is non-empty, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

// Read is Load without validation, for callers that apply further
// overrides before calling Validate themselves.
func Read(path string) (Config, error) {
	return read(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg, err := read(path, lookup)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func read(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + "_" + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str("BASE_URL", &c.Endpoint.BaseURL)
	str("ENDPOINT_PATH", &c.Endpoint.Path)
	str("CREDENTIAL_SOURCE", &c.Credentials.Source)
	str("CREDENTIAL_FILE", &c.Credentials.File)
	str("PARAM_PREFIX", &c.Credentials.ParamPrefix)
	str("PAGE", &c.Page)
	str("LOG_LEVEL", &c.LogLevel)
	str("DEVSERVER_ADDR", &c.DevServer.Addr)
	str("AUDIT_TABLE", &c.DevServer.AuditTable)
	str("MODEL", &c.DevServer.Model)

	if v, ok := lookup(EnvPrefix + "_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Endpoint.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "_DEVSERVER_TOKENS"); ok {
		c.DevServer.Tokens = splitList(v)
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint.base_url must be an http(s) URL, got %q", c.Endpoint.BaseURL)
	}
	if c.Endpoint.Timeout < 0 {
		return errors.New("endpoint.timeout must not be negative")
	}
	switch c.Credentials.Source {
	case SourceMemory, SourceEnv:
	case SourceFile:
		if c.Credentials.File == "" {
			return errors.New("credentials.file is required for the file source")
		}
	case SourceSSM:
		if strings.Trim(c.Credentials.ParamPrefix, "/ ") == "" {
			return errors.New("credentials.param_prefix is required for the ssm source")
		}
	default:
		return fmt.Errorf("credentials.source %q is not one of memory, env, file, ssm", c.Credentials.Source)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured level; invalid values were rejected by
// Validate.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel accepts debug, info, warn and error in any case. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return lvl, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
