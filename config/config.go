package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Application
	App AppConfig `mapstructure:"app"`

	// PostgreSQL
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Redis
	Redis RedisConfig `mapstructure:"redis"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

type AppConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	BaseURL       string `mapstructure:"base_url"`
	CodeLength    int    `mapstructure:"code_length"`
	SweepInterval string `mapstructure:"sweep_interval"`
	GeoIPPath     string `mapstructure:"geoip_path"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	Database          string `mapstructure:"database"`
	Port              int    `mapstructure:"port"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("app.code_length", 7)
	v.SetDefault("app.sweep_interval", "1m")
}

func bindEnvVars(v *viper.Viper) {
	// Application
	v.BindEnv("app.host", "APP_HOST")
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.base_url", "APP_BASE_URL")
	v.BindEnv("app.code_length", "APP_CODE_LENGTH")
	v.BindEnv("app.sweep_interval", "APP_SWEEP_INTERVAL")
	v.BindEnv("app.geoip_path", "APP_GEOIP_PATH")

	// PostgreSQL
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// NATS
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")
}

// Addr returns the listen address for the HTTP server.
func (c AppConfig) Addr() string {
	host := c.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}
