package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workday"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Workday  WorkdayConfig
	Archive  ArchiveConfig
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// WorkdayConfig holds the raw workday policy settings
type WorkdayConfig struct {
	Start            string
	GraceMinutes     int
	Timezone         string
	AnnualLeaveQuota int
}

// ArchiveConfig enables storing exported reports on disk when Dir is set
type ArchiveConfig struct {
	Dir     string
	BaseURL string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:      strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "hris_attendance"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		SQLitePath:  getEnv("SQLITE_PATH", "attendance.db"),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Workday policy
	grace, err := strconv.Atoi(getEnv("LATE_GRACE_MINUTES", strconv.Itoa(workday.DefaultGraceMinutes)))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_GRACE_MINUTES: %w", err)
	}
	quota, err := strconv.Atoi(getEnv("ANNUAL_LEAVE_QUOTA", strconv.Itoa(workday.DefaultAnnualLeaveQuota)))
	if err != nil {
		return nil, fmt.Errorf("invalid ANNUAL_LEAVE_QUOTA: %w", err)
	}

	config.Workday = WorkdayConfig{
		Start:            getEnv("WORKDAY_START", "08:00"),
		GraceMinutes:     grace,
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		AnnualLeaveQuota: quota,
	}

	config.Archive = ArchiveConfig{
		Dir:     getEnv("REPORT_ARCHIVE_DIR", ""),
		BaseURL: getEnv("REPORT_ARCHIVE_BASE_URL", "/api/v1/reports/archive"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.AccessExpiration(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// AccessExpiration parses JWT_ACCESS_EXPIRATION_TIME
func (c *Config) AccessExpiration() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWT.AccessExpiration)
	if err != nil {
		return 0, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	return d, nil
}

// Policy builds the workday policy every status derivation uses
func (c *Config) Policy() (workday.Policy, error) {
	start, err := workday.ParseClock(c.Workday.Start)
	if err != nil {
		return workday.Policy{}, fmt.Errorf("invalid WORKDAY_START: %w", err)
	}
	loc, err := time.LoadLocation(c.Workday.Timezone)
	if err != nil {
		return workday.Policy{}, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	policy := workday.Policy{
		StartMinutes:     start,
		GraceMinutes:     c.Workday.GraceMinutes,
		AnnualLeaveQuota: c.Workday.AnnualLeaveQuota,
		Location:         loc,
	}
	if err := policy.Validate(); err != nil {
		return workday.Policy{}, err
	}
	return policy, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL onto slog
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
