package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

type AppConfig struct {
	ServiceName    string
	ServiceVersion string

	Port        string
	MetricsPort string

	Store        string
	DatabasePath string
	DatabaseURL  string
	BadgerPath   string
	SQLLogLevel  string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool

	TelemetryEnabled bool
	OTLPEndpoint     string
	LokiURL          string

	GinMode     string
	Environment string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "todoapi",
		ServiceVersion: "1.0.0",

		Port:        "8080",
		MetricsPort: "9090",

		Store:        StoreSQLite,
		DatabasePath: "todos.db",
		BadgerPath:   "data/badger",
		SQLLogLevel:  "warn",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /graphql": {
				Requests: 120,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},

		EnforceHTTPS: false,

		TelemetryEnabled: false,
		OTLPEndpoint:     "localhost:4317",

		GinMode:     "debug",
		Environment: "development",
	}
}

// SetDefaults registers every key with its default so viper.AutomaticEnv can
// resolve it from the environment (PORT, STORE, DATABASE_URL, ...).
func SetDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	v.SetDefault("port", defaults.Port)
	v.SetDefault("metrics_port", defaults.MetricsPort)
	v.SetDefault("store", defaults.Store)
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("database_url", defaults.DatabaseURL)
	v.SetDefault("badger_path", defaults.BadgerPath)
	v.SetDefault("sql_log_level", defaults.SQLLogLevel)
	v.SetDefault("rate_limit_enabled", defaults.RateLimitEnabled)
	v.SetDefault("rate_limit_requests", defaults.RateLimitConfigs["POST /graphql"].Requests)
	v.SetDefault("rate_limit_window", defaults.RateLimitConfigs["POST /graphql"].Window)
	v.SetDefault("enforce_https", defaults.EnforceHTTPS)
	v.SetDefault("telemetry_enabled", defaults.TelemetryEnabled)
	v.SetDefault("otlp_endpoint", defaults.OTLPEndpoint)
	v.SetDefault("loki_url", defaults.LokiURL)
	v.SetDefault("gin_mode", defaults.GinMode)
	v.SetDefault("environment", defaults.Environment)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func Load(v *viper.Viper) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	cfg.Port = v.GetString("port")
	cfg.MetricsPort = v.GetString("metrics_port")
	cfg.Store = strings.ToLower(strings.TrimSpace(v.GetString("store")))
	cfg.DatabasePath = v.GetString("database_path")
	cfg.DatabaseURL = v.GetString("database_url")
	cfg.BadgerPath = v.GetString("badger_path")
	cfg.SQLLogLevel = v.GetString("sql_log_level")
	cfg.RateLimitEnabled = v.GetBool("rate_limit_enabled")
	cfg.EnforceHTTPS = v.GetBool("enforce_https")
	cfg.TelemetryEnabled = v.GetBool("telemetry_enabled")
	cfg.OTLPEndpoint = v.GetString("otlp_endpoint")
	cfg.LokiURL = v.GetString("loki_url")
	cfg.GinMode = v.GetString("gin_mode")
	cfg.Environment = v.GetString("environment")

	cfg.RateLimitConfigs["POST /graphql"] = RateLimitConfig{
		Requests: v.GetInt("rate_limit_requests"),
		Window:   v.GetDuration("rate_limit_window"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreBadger:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store %q requires DATABASE_URL", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q: use memory, sqlite, postgres or badger", c.Store)
	}

	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}

	for route, limit := range c.RateLimitConfigs {
		if limit.Requests <= 0 || limit.Window <= 0 {
			return fmt.Errorf("rate limit for %q needs positive requests and window", route)
		}
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production" || c.GinMode == "release"
}
