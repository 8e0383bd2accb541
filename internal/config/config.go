package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/efreitasn/qualifier/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultWebhookPath is the webhook-issue path used when none is configured.
const DefaultWebhookPath = "/hiring/generateWebhook"

// Config holds all runtime configuration for the qualifier.
type Config struct {
	Port     int
	LogLevel string

	Name  string
	RegNo string
	Email string

	BaseURL     string
	WebhookPath string

	EvenAnswer string
	OddAnswer  string

	HTTPTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// fileConfig is the YAML layout of the optional configuration file.
type fileConfig struct {
	User struct {
		Name  string `yaml:"name"`
		RegNo string `yaml:"regNo"`
		Email string `yaml:"email"`
	} `yaml:"user"`
	API struct {
		BaseURL     string `yaml:"baseUrl"`
		WebhookPath string `yaml:"webhookPath"`
	} `yaml:"api"`
	Answers struct {
		Even string `yaml:"even"`
		Odd  string `yaml:"odd"`
	} `yaml:"answers"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and defaults, and validates the result. Missing
// required fields are reported as domain.ErrConfigurationMissing.
func Load(path string) (*Config, error) {
	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d out of range", port)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	httpTimeout, err := getDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if httpTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %v, must be positive", httpTimeout)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:            port,
		LogLevel:        logLevel,
		Name:            strings.TrimSpace(getStr("APP_USER_NAME", fc.User.Name)),
		RegNo:           strings.TrimSpace(getStr("APP_USER_REGNO", fc.User.RegNo)),
		Email:           strings.TrimSpace(getStr("APP_USER_EMAIL", fc.User.Email)),
		BaseURL:         strings.TrimSpace(getStr("APP_API_BASE_URL", fc.API.BaseURL)),
		WebhookPath:     strings.TrimSpace(getStr("APP_API_WEBHOOK_PATH", fc.API.WebhookPath)),
		EvenAnswer:      getStr("APP_ANSWERS_EVEN", fc.Answers.Even),
		OddAnswer:       getStr("APP_ANSWERS_ODD", fc.Answers.Odd),
		HTTPTimeout:     httpTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}
	if cfg.WebhookPath == "" {
		cfg.WebhookPath = DefaultWebhookPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Identity returns the applicant identity.
func (c *Config) Identity() domain.Identity {
	return domain.Identity{
		Name:  c.Name,
		RegNo: c.RegNo,
		Email: c.Email,
	}
}

// WebhookURL is the absolute webhook-issue URL.
func (c *Config) WebhookURL() string {
	return c.BaseURL + c.WebhookPath
}

func (c *Config) validate() error {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "user.name (APP_USER_NAME)")
	}
	if c.RegNo == "" {
		missing = append(missing, "user.regNo (APP_USER_REGNO)")
	}
	if c.Email == "" {
		missing = append(missing, "user.email (APP_USER_EMAIL)")
	}
	if c.BaseURL == "" {
		missing = append(missing, "api.baseUrl (APP_API_BASE_URL)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfigurationMissing, strings.Join(missing, ", "))
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return errors.New("invalid api.baseUrl: must be an absolute URL")
	}
	return nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
