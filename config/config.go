package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/fetcher"
)

// Config is the complete service configuration.
type Config struct {
	Server ServerConfig `json:"server"`
	Fetch  FetchConfig  `json:"fetch"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	ReadTimeout     Duration `json:"read_timeout"`
	WriteTimeout    Duration `json:"write_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// FetchConfig holds outbound retrieval settings.
type FetchConfig struct {
	Timeout      Duration `json:"timeout"`
	MaxRedirects int      `json:"max_redirects"`
	UserAgent    string   `json:"user_agent"`
	RateLimit    float64  `json:"rate_limit"`
	RateBurst    int      `json:"rate_burst"`
	MaxAttempts  int      `json:"max_attempts"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`  // "debug", "info", "warn", "error"
	Format string `json:"format"` // "json", "text"
}

// Duration is a time.Duration that marshals as a Go duration string
// ("30s", "1m30s") so config files stay readable and schema-checkable.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Fetch: FetchConfig{
			Timeout:      Duration(30 * time.Second),
			MaxRedirects: 10,
			UserAgent:    "semvalid/" + fetcher.Version,
			RateLimit:    0,
			RateBurst:    1,
			MaxAttempts:  3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the effective configuration: defaults, then the optional
// file at path, then environment overrides, then schema validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := safeReadFile(path)
		if err != nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
				"Config", "Load", path)
		}
		if err := validateJSONDepth(data); err != nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
				"Config", "Load", path)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
				"Config", "Load", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variable names recognized by applyEnv.
const (
	EnvHost         = "SEMVALID_HOST"
	EnvPort         = "SEMVALID_PORT"
	EnvLogLevel     = "SEMVALID_LOG_LEVEL"
	EnvLogFormat    = "SEMVALID_LOG_FORMAT"
	EnvFetchTimeout = "SEMVALID_FETCH_TIMEOUT"
	EnvRateLimit    = "SEMVALID_FETCH_RATE_LIMIT"
	EnvUserAgent    = "SEMVALID_USER_AGENT"
)

// applyEnv overlays SEMVALID_* environment variables onto the config.
func (c *Config) applyEnv() error {
	if v, err := envValue(EnvHost); err != nil {
		return err
	} else if v != "" {
		c.Server.Host = v
	}

	if v, err := envValue(EnvPort); err != nil {
		return err
	} else if v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return invalidEnv(EnvPort, v)
		}
		c.Server.Port = port
	}

	if v, err := envValue(EnvLogLevel); err != nil {
		return err
	} else if v != "" {
		c.Log.Level = v
	}

	if v, err := envValue(EnvLogFormat); err != nil {
		return err
	} else if v != "" {
		c.Log.Format = v
	}

	if v, err := envValue(EnvFetchTimeout); err != nil {
		return err
	} else if v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return invalidEnv(EnvFetchTimeout, v)
		}
		c.Fetch.Timeout = Duration(d)
	}

	if v, err := envValue(EnvRateLimit); err != nil {
		return err
	} else if v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return invalidEnv(EnvRateLimit, v)
		}
		c.Fetch.RateLimit = limit
	}

	if v, err := envValue(EnvUserAgent); err != nil {
		return err
	} else if v != "" {
		c.Fetch.UserAgent = v
	}

	return nil
}

// envValue reads and sanity-checks one environment variable.
func envValue(key string) (string, error) {
	value := os.Getenv(key)
	if err := validateEnvVar(key, value); err != nil {
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err),
			"Config", "applyEnv", key)
	}
	return value, nil
}

func invalidEnv(key, value string) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: cannot parse %s=%q", errors.ErrInvalidConfig, key, value),
		"Config", "applyEnv", key)
}

// FetcherConfig maps the fetch section onto the fetcher's own config type.
func (c *Config) FetcherConfig() fetcher.Config {
	retry := errors.DefaultRetryConfig()
	if c.Fetch.MaxAttempts > 0 {
		retry.MaxRetries = c.Fetch.MaxAttempts - 1
	}
	return fetcher.Config{
		Timeout:      c.Fetch.Timeout.Std(),
		MaxRedirects: c.Fetch.MaxRedirects,
		UserAgent:    c.Fetch.UserAgent,
		RateLimit:    c.Fetch.RateLimit,
		RateBurst:    c.Fetch.RateBurst,
		Retry:        retry,
	}
}
