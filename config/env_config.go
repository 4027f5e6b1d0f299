package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type EnvConfig struct {
	Server struct {
		Port string
	}
	Database struct {
		Driver     string
		SQLitePath string
	}
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
		SSLMode  string
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Activity struct {
		Enabled bool
		Limit   int64
	}
	Grafana struct {
		Enabled      bool
		OTLPEndpoint string
		ServiceName  string
	}

	Environment struct {
		Mode string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	config.Server.Port = getEnv("SERVER_PORT", "8080")

	// Storage
	config.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	config.Database.SQLitePath = getEnv("SQLITE_PATH", "bucket_list.db")

	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = getEnv("PGPOOL_PORT", "5432")
	config.Postgres.SSLMode = getEnv("PGPOOL_SSLMODE", "disable")

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database = getEnvInt("REDIS_DB", 0)
	config.Redis.RedisHost = getEnv("REDIS_HOST", "localhost")
	config.Redis.RedisPort = getEnv("REDIS_PORT", "6379")

	// RabbitMQ
	config.RabbitMQ.Host = getEnv("RABBITMQ_HOST", "localhost")
	config.RabbitMQ.Port = getEnv("RABBITMQ_PORT", "5672")
	config.RabbitMQ.Username = getEnv("RABBITMQ_USER", "guest")
	config.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", "guest")

	config.Activity.Enabled = getEnvBool("ACTIVITY_ENABLED", true)
	config.Activity.Limit = int64(getEnvInt("ACTIVITY_LIMIT", 50))
	if config.Activity.Limit <= 0 {
		config.Activity.Limit = 50
	}

	// Grafana/OpenTelemetry
	config.Grafana.Enabled = getEnvBool("TELEMETRY_ENABLED", false)
	grafanaEndpoint := getEnv("GRAFANA_OTLP_ENDPOINT", "https://grafana.gauas.online")
	// OpenTelemetry exporters expect host[:port] without a scheme
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = getEnv("SERVICE_NAME", "gau-bucket-list")

	config.Environment.Mode = getEnv("DEPLOY_ENV", "development")

	return &config
}

// PostgresDSN builds the key/value DSN understood by pgx.
func (c *EnvConfig) PostgresDSN() string {
	return "host=" + c.Postgres.HOST +
		" user=" + c.Postgres.Username +
		" password=" + c.Postgres.Password +
		" dbname=" + c.Postgres.Database +
		" port=" + c.Postgres.Port +
		" sslmode=" + c.Postgres.SSLMode
}

// AllowedOrigins returns the configured CORS origins; empty means any origin.
func (c *EnvConfig) AllowedOrigins() []string {
	var origins []string
	for _, domain := range strings.Split(c.CORS.AllowDomains, ",") {
		if domain = strings.TrimSpace(domain); domain != "" {
			origins = append(origins, domain)
		}
	}
	return origins
}

func (c *EnvConfig) IsProduction() bool {
	return c.Environment.Mode == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
