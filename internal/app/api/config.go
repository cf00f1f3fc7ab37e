package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	"github.com/devsuperior/dscommerce/internal/platform/kafka"
	"github.com/devsuperior/dscommerce/internal/platform/security"
	"github.com/devsuperior/dscommerce/internal/platform/temporal/workflows/orders"
)

// Storage drivers selectable with DATABASE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// ConfigFileEnv names an optional YAML/JSON/TOML file read before the environment.
const ConfigFileEnv = "DSCOMMERCE_CONFIG"

// Config carries settings for the API, worker and purger processes.
type Config struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OTLPEndpoint string `mapstructure:"otel_exporter_otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otel_exporter_otlp_insecure"`

	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseDSN    string `mapstructure:"database_dsn"`
	SeedData       bool   `mapstructure:"seed_data"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic"`

	TemporalAddress   string `mapstructure:"temporal_address"`
	TemporalNamespace string `mapstructure:"temporal_namespace"`
	TemporalTaskQueue string `mapstructure:"temporal_task_queue"`
	TemporalDisabled  bool   `mapstructure:"temporal_disabled"`

	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	SessionTTLHours int           `mapstructure:"session_ttl_hours"`
	BcryptCost      int           `mapstructure:"bcrypt_cost"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	SessionPurgeInterval time.Duration `mapstructure:"session_purge_interval"`
}

// LoadConfig reads defaults, the optional config file named by
// DSCOMMERCE_CONFIG, then environment variables, and validates the result.
func LoadConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if err := v.BindEnv("database_dsn", "DATABASE_DSN", "POSTGRES_DSN"); err != nil {
		return Config{}, err
	}

	if path := strings.TrimSpace(os.Getenv(ConfigFileEnv)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "local")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_insecure", false)

	v.SetDefault("database_driver", "")
	v.SetDefault("database_dsn", "")
	v.SetDefault("seed_data", false)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", kafka.DefaultTopic)

	v.SetDefault("temporal_address", client.DefaultHostPort)
	v.SetDefault("temporal_namespace", client.DefaultNamespace)
	v.SetDefault("temporal_task_queue", orders.OrderPlacementTaskQueue)
	v.SetDefault("temporal_disabled", false)

	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", security.DefaultTokenTTL.String())
	v.SetDefault("session_ttl_hours", 0)
	v.SetDefault("bcrypt_cost", 10)

	v.SetDefault("rate_limit_rps", 50.0)
	v.SetDefault("rate_limit_burst", 100)

	v.SetDefault("session_purge_interval", "0s")
}

func (c *Config) normalize() {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.DatabaseDSN = strings.TrimSpace(c.DatabaseDSN)
	if c.DatabaseDriver == "" {
		// A bare DSN keeps working the way POSTGRES_DSN always did.
		if c.DatabaseDSN != "" {
			c.DatabaseDriver = DriverPostgres
		} else {
			c.DatabaseDriver = DriverMemory
		}
	}
	if c.SessionTTLHours > 0 {
		c.TokenTTL = time.Duration(c.SessionTTLHours) * time.Hour
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres, DriverMySQL:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for driver %s", c.DatabaseDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}
	if c.SessionPurgeInterval < 0 {
		errs = append(errs, errors.New("SESSION_PURGE_INTERVAL must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
