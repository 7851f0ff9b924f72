package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"chama/internal/core"
	applog "chama/internal/log"
)

// Themes are the colour schemes the dashboard ships with.
var Themes = []string{"ocean", "forest", "sunset", "slate"}

// NotifyBackends are the supported notification transports. "log" only
// writes to the application log.
var NotifyBackends = []string{"log", "amqp", "redis"}

type Config struct {
	// HTTP Server
	Port               string        `envconfig:"PORT" default:"8080"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Presentation
	Theme    string `envconfig:"THEME" default:"ocean"`
	Timezone string `envconfig:"TIMEZONE" default:"Africa/Nairobi"`

	// Members and initial settings
	SeedFile              string        `envconfig:"SEED_FILE"`
	MonthlyGoal           int64         `envconfig:"MONTHLY_GOAL" default:"20000"`
	ReminderDay           int           `envconfig:"REMINDER_DAY" default:"25"`
	AutoReminders         bool          `envconfig:"AUTO_REMINDERS" default:"true"`
	ReminderFrequency     string        `envconfig:"REMINDER_FREQUENCY" default:"weekly"`
	ReminderCheckInterval time.Duration `envconfig:"REMINDER_CHECK_INTERVAL" default:"1h"`

	// Notifications
	NotifyBackend  string `envconfig:"NOTIFY_BACKEND" default:"log"`
	AMQPURL        string `envconfig:"AMQP_URL"`
	AMQPExchange   string `envconfig:"AMQP_EXCHANGE" default:"chama"`
	AMQPRoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"notifications"`
	RedisURL       string `envconfig:"REDIS_URL"`
	RedisChannel   string `envconfig:"REDIS_CHANNEL" default:"chama:notifications"`

	// Google Sheets report export
	GoogleSpreadsheetID          string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	GoogleSheetName              string `envconfig:"GOOGLE_SHEET_NAME" default:"Contributions"`
	GoogleServiceAccountJSON     string `envconfig:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile     string `envconfig:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GoogleApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if !slices.Contains(Themes, c.Theme) {
		errs = append(errs, fmt.Sprintf("invalid theme '%s': must be one of %v", c.Theme, Themes))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	var fe core.FieldErrors
	if err := c.Settings().Validate(); errors.As(err, &fe) {
		for _, field := range sortedKeys(fe) {
			errs = append(errs, fmt.Sprintf("invalid %s: %s", field, fe[field]))
		}
	} else if err != nil {
		errs = append(errs, err.Error())
	}

	if c.ReminderCheckInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid reminder check interval %v: must be at least 1 second", c.ReminderCheckInterval))
	} else if c.ReminderCheckInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid reminder check interval %v: must be at most 24 hours", c.ReminderCheckInterval))
	}

	switch c.NotifyBackend {
	case "log":
	case "amqp":
		if c.AMQPURL == "" {
			errs = append(errs, "AMQP URL is required when NOTIFY_BACKEND is 'amqp'")
		} else if msg := checkScheme("AMQP", c.AMQPURL, "amqp", "amqps"); msg != "" {
			errs = append(errs, msg)
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP is enabled")
		}
		if c.AMQPRoutingKey == "" {
			errs = append(errs, "AMQP routing key cannot be empty when AMQP is enabled")
		}
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, "Redis URL is required when NOTIFY_BACKEND is 'redis'")
		} else if msg := checkScheme("Redis", c.RedisURL, "redis", "rediss"); msg != "" {
			errs = append(errs, msg)
		}
		if c.RedisChannel == "" {
			errs = append(errs, "Redis channel cannot be empty when Redis is enabled")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid notify backend '%s': must be one of %v", c.NotifyBackend, NotifyBackends))
	}

	if c.SheetsEnabled() && c.GoogleCredentialsFile() == "" && c.GoogleServiceAccountJSON == "" {
		errs = append(errs, "Google service account credentials are required when GOOGLE_SPREADSHEET_ID is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Settings returns the initial contribution settings.
func (c *Config) Settings() core.Settings {
	return core.Settings{
		MonthlyGoal:       core.Money{Shillings: c.MonthlyGoal},
		ReminderDay:       c.ReminderDay,
		AutoReminders:     c.AutoReminders,
		ReminderFrequency: core.Frequency(strings.ToLower(c.ReminderFrequency)),
	}
}

// Location returns the time zone that decides the calendar day.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SheetsEnabled reports whether reports can be exported to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return strings.TrimSpace(c.GoogleSpreadsheetID) != ""
}

// GoogleCredentialsFile prefers GOOGLE_SERVICE_ACCOUNT_FILE over the standard
// GOOGLE_APPLICATION_CREDENTIALS variable.
func (c *Config) GoogleCredentialsFile() string {
	if c.GoogleServiceAccountFile != "" {
		return c.GoogleServiceAccountFile
	}
	return c.GoogleApplicationCredentials
}

func checkScheme(name, raw string, schemes ...string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid %s URL: %v", name, err)
	}
	if !slices.Contains(schemes, u.Scheme) {
		return fmt.Sprintf("invalid %s URL scheme '%s': must be one of %v", name, u.Scheme, schemes)
	}
	return ""
}

func sortedKeys(m core.FieldErrors) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
