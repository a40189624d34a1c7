package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

const envFile = ".env"

// Config holds application configuration
type Config struct {
	BindHost           string
	Port               string
	LogLevel           string
	LogFormat          string
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// NewConfig loads configuration from environment variables, optionally overridden by command line flags
func NewConfig(args []string) (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("users-service", flag.ContinueOnError)
	fs.StringVar(&cfg.BindHost, "bind-host", getEnv("BIND_HOST", "0.0.0.0"), "Bind host")
	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "5000"), "Port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "which log level to output")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "json"), "which log format to use")
	fs.StringVar(&cfg.DBDriver, "db-driver", getEnv("DB_DRIVER", "postgres"), "database driver (postgres|mysql)")
	fs.StringVar(&cfg.DBHost, "db-host", getEnv("DB_HOST", "db"), "database host")
	fs.StringVar(&cfg.DBPort, "db-port", getEnv("DB_PORT", ""), "database port, defaults to the driver's standard port")
	fs.StringVar(&cfg.DBUser, "db-user", getEnv("DB_USER", "app_user"), "database user")
	fs.StringVar(&cfg.DBPassword, "db-password", getEnv("DB_PASSWORD", "1234"), "database password")
	fs.StringVar(&cfg.DBName, "db-name", getEnv("DB_NAME", "crud_db"), "database name")
	fs.StringVar(&cfg.DBSSLMode, "db-sslmode", getEnv("DB_SSLMODE", "disable"), "postgres sslmode")
	fs.StringSliceVar(&cfg.CORSAllowedOrigins, "cors-allowed-origins", splitEnv("CORS_ALLOWED_ORIGINS"), "allowed CORS origins (comma separated), empty disables CORS")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", durationEnv("SHUTDOWN_TIMEOUT", 5*time.Second), "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.DBPort == "" {
		cfg.DBPort = defaultPort(cfg.DBDriver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures required fields are present
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.DBUser == "" || c.DBPassword == "" || c.DBName == "" {
		return fmt.Errorf("DB_USER, DB_PASSWORD and DB_NAME are required")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%s", c.BindHost, c.Port)
}

func defaultPort(driver string) string {
	if driver == "mysql" {
		return "3306"
	}
	return "5432"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitEnv(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func durationEnv(key string, defaultVal time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultVal
	}
	return d
}
