package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// Supported values for DATA_SOURCE
const (
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceFile     = "file"
	SourceMemory   = "memory"
)

// DBConfig holds relational database configuration
type DBConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	ConnectTimeout  time.Duration
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the PostgreSQL connection string.
// A full connection URL (DATABASE_URL / POSTGRES_URL) wins over the individual parameters.
func (c *DBConfig) GetDSN() string {
	timeout := int(c.ConnectTimeout.Seconds())
	if timeout < 1 {
		timeout = 1
	}
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return c.URL
		}
		q := u.Query()
		if q.Get("connect_timeout") == "" {
			q.Set("connect_timeout", strconv.Itoa(timeout))
		}
		u.RawQuery = q.Encode()
		return u.String()
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode, timeout)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port       string
	Env        string
	APIPrefix  string
	CORSOrigin string
}

// DataConfig selects and tunes the catalog data source
type DataConfig struct {
	Source             string
	Dir                string
	StaticProducts     bool
	FallbackToFixtures bool
	DefaultPageLimit   int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey string
	Expiration time.Duration
}

// AdminConfig holds the credentials used to provision the first admin
type AdminConfig struct {
	Username string
	Password string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	File  string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Data    DataConfig
	JWT     JWTConfig
	Admin   AdminConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", getEnv("SERVER_PORT", "5000")),
			Env:        getEnv("APP_ENV", "development"),
			APIPrefix:  getEnv("API_PREFIX", "/api"),
			CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		},
		DB: DBConfig{
			URL:             getEnv("DATABASE_URL", getEnv("POSTGRES_URL", "")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "mma_agriculture"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("SQLITE_PATH", "./data/catalog.db"),
			ConnectTimeout:  getEnvAsDuration("DB_CONNECT_TIMEOUT", 2*time.Second),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Data: DataConfig{
			Source:             strings.ToLower(getEnv("DATA_SOURCE", SourcePostgres)),
			Dir:                getEnv("DATA_DIR", "./data"),
			StaticProducts:     getEnvAsBool("STATIC_PRODUCTS_ENABLED", true),
			FallbackToFixtures: getEnvAsBool("DATA_FALLBACK_TO_FIXTURES", false),
			DefaultPageLimit:   getEnvAsInt("DEFAULT_PAGE_LIMIT", 10),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			Expiration: getEnvAsDuration("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "catalog"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourcePostgres, SourceSQLite, SourceFile, SourceMemory:
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q: expected postgres, sqlite, file or memory", c.Data.Source)
	}
	if c.Data.DefaultPageLimit < 1 {
		return fmt.Errorf("invalid DEFAULT_PAGE_LIMIT %d: must be positive", c.Data.DefaultPageLimit)
	}
	if c.JWT.SigningKey == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRES_IN: must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogFields returns the configuration as zap fields, without secrets
func (c *Config) LogFields() []zap.Field {
	fields := []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("port", c.Server.Port),
		zap.String("api_prefix", c.Server.APIPrefix),
		zap.String("data_source", c.Data.Source),
		zap.Bool("static_products", c.Data.StaticProducts),
		zap.Bool("fallback_to_fixtures", c.Data.FallbackToFixtures),
		zap.Int("default_page_limit", c.Data.DefaultPageLimit),
	}
	switch c.Data.Source {
	case SourcePostgres:
		if c.DB.URL != "" {
			fields = append(fields, zap.String("db_url", maskDSN(c.DB.URL)))
		} else {
			fields = append(fields,
				zap.String("db_host", c.DB.Host),
				zap.String("db_port", c.DB.Port),
				zap.String("db_user", c.DB.User),
				zap.String("db_name", c.DB.DBName))
		}
	case SourceSQLite:
		fields = append(fields, zap.String("sqlite_path", c.DB.SQLitePath))
	case SourceFile:
		fields = append(fields, zap.String("data_dir", c.Data.Dir))
	}
	return fields
}

// maskDSN hides the password of a connection URL
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return "***MASKED***"
	}
	return u.Redacted()
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as booleans
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
