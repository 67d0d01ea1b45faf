package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Calculation history
	HistoryBackend string
	SQLiteDBPath   string

	// Export cache
	CacheBackend string
	RedisAddr    string
	CacheTTL     time.Duration

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Rate limiting of the /loan/* routes
	RateLimitRequests int
	RateLimitWindow   time.Duration

	ConfigFile string
	Form       FormSettings
}

// FormSettings drive the calculator form: input bounds, initial values and
// the currency symbol used for display.
type FormSettings struct {
	CurrencySymbol string       `yaml:"currency_symbol"`
	Defaults       FormDefaults `yaml:"defaults"`
	Limits         FormLimits   `yaml:"limits"`
}

type FormDefaults struct {
	Principal         float64 `yaml:"principal"`
	AnnualRatePercent float64 `yaml:"annual_rate_percent"`
	TermMonths        int     `yaml:"term_months"`
}

type FormLimits struct {
	MinPrincipal float64 `yaml:"min_principal"`
	MaxPrincipal float64 `yaml:"max_principal"`
	MinRate      float64 `yaml:"min_rate"`
	MaxRate      float64 `yaml:"max_rate"`
	MinTerm      int     `yaml:"min_term"`
	MaxTerm      int     `yaml:"max_term"`
}

func DefaultFormSettings() FormSettings {
	return FormSettings{
		CurrencySymbol: "L.",
		Defaults: FormDefaults{
			Principal:         100000,
			AnnualRatePercent: 5,
			TermMonths:        60,
		},
		Limits: FormLimits{
			MinPrincipal: 1000,
			MaxPrincipal: 10_000_000,
			MinRate:      0,
			MaxRate:      50,
			MinTerm:      1,
			MaxTerm:      480,
		},
	}
}

// Load reads the configuration from the environment. When CONFIG_FILE is
// set the form settings are read from that YAML file on top of the defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		HistoryBackend: getEnv("HISTORY_BACKEND", "memory"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/loans.db"),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:     getEnvDuration("CACHE_TTL", 10*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "loan_calculator"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "calculations"),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		ConfigFile: getEnv("CONFIG_FILE", ""),
		Form:       DefaultFormSettings(),
	}

	if cfg.ConfigFile != "" {
		form, err := LoadFormSettings(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.Form = form
	}

	return cfg, nil
}

// LoadFormSettings reads a YAML file of form settings. Keys missing from the
// file keep their default value.
func LoadFormSettings(filename string) (FormSettings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return FormSettings{}, fmt.Errorf("read config file: %w", err)
	}

	form := DefaultFormSettings()
	if err := yaml.Unmarshal(data, &form); err != nil {
		return FormSettings{}, fmt.Errorf("parse config file %s: %w", filename, err)
	}
	return form, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	validHistory := []string{"memory", "sqlite", "none"}
	if !contains(validHistory, c.HistoryBackend) {
		errors = append(errors, fmt.Sprintf("invalid history backend '%s': must be one of %v", c.HistoryBackend, validHistory))
	}
	if c.HistoryBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	validCaches := []string{"memory", "redis"}
	if !contains(validCaches, c.CacheBackend) {
		errors = append(errors, fmt.Sprintf("invalid cache backend '%s': must be one of %v", c.CacheBackend, validCaches))
	}
	if c.CacheBackend == "redis" && c.RedisAddr == "" {
		errors = append(errors, "Redis address cannot be empty when using redis cache")
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitRequests < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request", c.RateLimitRequests))
	}
	if c.RateLimitWindow < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate limit window %v: must be at least 1 second", c.RateLimitWindow))
	}

	errors = append(errors, c.Form.problems()...)

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func (f FormSettings) problems() []string {
	var errors []string
	l, d := f.Limits, f.Defaults

	if strings.TrimSpace(f.CurrencySymbol) == "" {
		errors = append(errors, "currency symbol cannot be empty")
	}
	if l.MinPrincipal <= 0 || l.MinPrincipal > l.MaxPrincipal {
		errors = append(errors, fmt.Sprintf("invalid principal limits %.2f..%.2f", l.MinPrincipal, l.MaxPrincipal))
	}
	if l.MinRate < 0 || l.MinRate > l.MaxRate {
		errors = append(errors, fmt.Sprintf("invalid rate limits %.2f..%.2f", l.MinRate, l.MaxRate))
	}
	if l.MinTerm < 1 || l.MinTerm > l.MaxTerm {
		errors = append(errors, fmt.Sprintf("invalid term limits %d..%d", l.MinTerm, l.MaxTerm))
	}
	if d.Principal < l.MinPrincipal || d.Principal > l.MaxPrincipal {
		errors = append(errors, fmt.Sprintf("default principal %.2f is outside the limits", d.Principal))
	}
	if d.AnnualRatePercent < l.MinRate || d.AnnualRatePercent > l.MaxRate {
		errors = append(errors, fmt.Sprintf("default rate %.2f is outside the limits", d.AnnualRatePercent))
	}
	if d.TermMonths < l.MinTerm || d.TermMonths > l.MaxTerm {
		errors = append(errors, fmt.Sprintf("default term %d is outside the limits", d.TermMonths))
	}
	return errors
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
