package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Triage       TriageConfig
	SLA          SLAConfig
	Risk         RiskConfig
	LLM          LLMConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines bearer-token validation parameters. Tokens are issued
// by the upstream identity provider; this service only verifies them.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// TriageConfig tunes routing and handler execution.
type TriageConfig struct {
	ConfidenceThreshold   float64
	MaxHandlers           int
	HandlerTimeoutSeconds int
	AnalyticsCapacity     int
}

// SLAConfig holds per-priority violation thresholds and the sweep schedule.
type SLAConfig struct {
	LowMinutes    int
	MediumMinutes int
	HighMinutes   int
	UrgentMinutes int
	SweepSchedule string
	LockTTLSec    int
}

// RiskConfig lists resource names per risk tier for auto-approval decisions.
type RiskConfig struct {
	LowResources  []string
	HighResources []string
}

// LLMConfig configures the text-generation collaborator.
type LLMConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

var defaultLowRiskResources = []string{
	"figma", "slack", "notion", "zoom", "jira", "confluence", "miro",
}

var defaultHighRiskResources = []string{
	"aws", "production database", "admin panel", "vpn", "payment gateway", "kubernetes",
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("TRIAGE_CONFIDENCE_THRESHOLD", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TRIAGE_CONFIDENCE_THRESHOLD: %w", err)
	}
	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-triage"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Triage: TriageConfig{
			ConfidenceThreshold:   threshold,
			MaxHandlers:           getEnvAsInt("TRIAGE_MAX_HANDLERS", 2),
			HandlerTimeoutSeconds: getEnvAsInt("TRIAGE_HANDLER_TIMEOUT_SECONDS", 30),
			AnalyticsCapacity:     getEnvAsInt("TRIAGE_ANALYTICS_CAPACITY", 100),
		},
		SLA: SLAConfig{
			LowMinutes:    getEnvAsInt("SLA_LOW_MINUTES", 4320),
			MediumMinutes: getEnvAsInt("SLA_MEDIUM_MINUTES", 1440),
			HighMinutes:   getEnvAsInt("SLA_HIGH_MINUTES", 240),
			UrgentMinutes: getEnvAsInt("SLA_URGENT_MINUTES", 60),
			SweepSchedule: getEnv("SLA_SWEEP_SCHEDULE", "*/5 * * * *"),
			LockTTLSec:    getEnvAsInt("SLA_SWEEP_LOCK_TTL_SECONDS", 120),
		},
		Risk: RiskConfig{
			LowResources:  getEnvAsList("RISK_LOW_RESOURCES", defaultLowRiskResources),
			HighResources: getEnvAsList("RISK_HIGH_RESOURCES", defaultHighRiskResources),
		},
		LLM: LLMConfig{
			APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
			Model:       getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1024),
			Temperature: temperature,
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Triage.MaxHandlers < 1 {
		return nil, fmt.Errorf("TRIAGE_MAX_HANDLERS must be >= 1")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// HandlerTimeout returns the per-handler execution timeout.
func (t TriageConfig) HandlerTimeout() time.Duration {
	if t.HandlerTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(t.HandlerTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
