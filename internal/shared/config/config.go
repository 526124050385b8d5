package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"carteira/internal/domain/installment"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Scheduler  SchedulerConfig
	TLS        TLSConfig
	Firebase   FirebaseConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
	Projection ProjectionConfig
	Reminders  ReminderConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type SchedulerConfig struct {
	Enabled       bool
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	JobTimeout    time.Duration
	QueueSize     int
	RunOnStartup  bool
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type FirebaseConfig struct {
	CredentialsFile string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
	SampleRatio  float64
}

type LogConfig struct {
	Level  string
	Format string
}

type ProjectionConfig struct {
	Bucketing installment.Bucketing
	Elapsed   installment.ElapsedRule
}

type ReminderConfig struct {
	LeadDays     int
	MessagesFile string
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"HOST":                      "0.0.0.0",
	"ALLOWED_HOSTS":             "",
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "5432",
	"DB_USER":                   "carteira",
	"DB_PASSWORD":               "",
	"DB_NAME":                   "carteira",
	"DB_SSLMODE":                "disable",
	"DB_AUTO_MIGRATE":           "false",
	"DB_MAX_OPEN_CONNS":         "25",
	"DB_MAX_IDLE_CONNS":         "5",
	"DB_CONN_MAX_LIFETIME":      "5m",
	"AUTH_JWT_SECRET":           "",
	"AUTH_JWT_ISSUER":           "",
	"AUTH_JWT_AUDIENCE":         "",
	"SCHEDULER_ENABLED":         "true",
	"SCHEDULER_TIMES":           "08:00",
	"SCHEDULER_WORKERS":         "5",
	"SCHEDULER_JOB_DELAY":       "1s",
	"SCHEDULER_JOB_TIMEOUT":     "2m",
	"SCHEDULER_QUEUE_SIZE":      "100",
	"SCHEDULER_RUN_ON_STARTUP":  "false",
	"TLS_ENABLED":               "false",
	"TLS_CERT_PATH":             "",
	"TLS_KEY_PATH":              "",
	"TLS_REDIRECT_HTTP":         "false",
	"FIREBASE_CREDENTIALS_FILE": "",
	"OTEL_ENABLED":              "false",
	"OTEL_SERVICE_NAME":         "carteira-api",
	"OTEL_ENVIRONMENT":          "development",
	"OTEL_EXPORTER_ENDPOINT":    "localhost:4317",
	"METRICS_PORT":              "9090",
	"OTEL_SAMPLE_RATIO":         "1",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "text",
	"PROJECTION_BUCKETING":      "calendar",
	"USED_LIMIT_RULE":           "thirty_day",
	"REMINDER_LEAD_DAYS":        "3",
	"MESSAGES_FILE":             "messages.json",
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	p := &parser{v: v}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Host:         v.GetString("HOST"),
			AllowedHosts: splitList(v.GetString("ALLOWED_HOSTS")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            p.int("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			AutoMigrate:     p.bool("DB_AUTO_MIGRATE"),
			MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("AUTH_JWT_SECRET"),
			Issuer:   v.GetString("AUTH_JWT_ISSUER"),
			Audience: v.GetString("AUTH_JWT_AUDIENCE"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       p.bool("SCHEDULER_ENABLED"),
			ScheduleTimes: splitList(v.GetString("SCHEDULER_TIMES")),
			WorkerCount:   p.int("SCHEDULER_WORKERS"),
			JobDelay:      p.duration("SCHEDULER_JOB_DELAY"),
			JobTimeout:    p.duration("SCHEDULER_JOB_TIMEOUT"),
			QueueSize:     p.int("SCHEDULER_QUEUE_SIZE"),
			RunOnStartup:  p.bool("SCHEDULER_RUN_ON_STARTUP"),
		},
		TLS: TLSConfig{
			Enabled:      p.bool("TLS_ENABLED"),
			CertPath:     v.GetString("TLS_CERT_PATH"),
			KeyPath:      v.GetString("TLS_KEY_PATH"),
			RedirectHTTP: p.bool("TLS_REDIRECT_HTTP"),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      p.bool("OTEL_ENABLED"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			Environment:  v.GetString("OTEL_ENVIRONMENT"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_ENDPOINT"),
			MetricsPort:  v.GetString("METRICS_PORT"),
			SampleRatio:  p.float("OTEL_SAMPLE_RATIO"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Reminders: ReminderConfig{
			LeadDays:     p.int("REMINDER_LEAD_DAYS"),
			MessagesFile: v.GetString("MESSAGES_FILE"),
		},
	}

	var err error
	if cfg.Projection.Bucketing, err = installment.ParseBucketing(v.GetString("PROJECTION_BUCKETING")); err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid PROJECTION_BUCKETING: %w", err))
	}
	if cfg.Projection.Elapsed, err = installment.ParseElapsedRule(v.GetString("USED_LIMIT_RULE")); err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid USED_LIMIT_RULE: %w", err))
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	if c.TLS.Enabled {
		if c.TLS.CertPath == "" {
			return fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if c.TLS.KeyPath == "" {
			return fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	if c.Reminders.LeadDays < 0 {
		return fmt.Errorf("REMINDER_LEAD_DAYS must not be negative")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATIO must be between 0 and 1")
	}

	if c.Scheduler.WorkerCount < 1 {
		return fmt.Errorf("SCHEDULER_WORKERS must be at least 1")
	}

	for _, t := range c.Scheduler.ScheduleTimes {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid SCHEDULER_TIMES entry %q: expected HH:MM", t)
		}
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// parser reads typed values from viper and collects the parse errors that
// viper's own getters would silently turn into zero values.
type parser struct {
	v    *viper.Viper
	errs []error
}

func (p *parser) int(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(p.v.GetString(key)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return n
}

func (p *parser) float(key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(p.v.GetString(key)), 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return f
}

func (p *parser) duration(key string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(p.v.GetString(key)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
	}
	return d
}

// bool accepts true/false, 1/0 and yes/no in any case.
func (p *parser) bool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(p.v.GetString(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no", "":
		return false
	default:
		p.errs = append(p.errs, fmt.Errorf("invalid %s: expected a boolean", key))
		return false
	}
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
