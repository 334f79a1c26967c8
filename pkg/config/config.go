package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Assignment store drivers.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	Timezone  string

	Timetable TimetableConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Reminder  ReminderConfig
	Export    ExportConfig
	CORS      CORSConfig
	Log       LogConfig
}

// TimetableConfig points at the weekly timetable document.
type TimetableConfig struct {
	File string
}

// StoreConfig selects where teacher assignments persist.
type StoreConfig struct {
	Driver          string
	AssignmentsFile string
	SQLitePath      string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs caching of built day schedules.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ReminderConfig tunes the background lesson reminder loop.
type ReminderConfig struct {
	Lead            time.Duration
	PollInterval    time.Duration
	WeekendInterval time.Duration
	Desktop         bool
	AppName         string
	Workers         int
	Retries         int
}

// ExportConfig controls where the CLI writes rendered schedules.
type ExportConfig struct {
	Dir string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.Timezone = v.GetString("TIMEZONE")

	cfg.Timetable = TimetableConfig{File: v.GetString("TIMETABLE_FILE")}

	cfg.Store = StoreConfig{
		Driver:          strings.ToLower(strings.TrimSpace(v.GetString("ASSIGNMENT_STORE"))),
		AssignmentsFile: v.GetString("ASSIGNMENTS_FILE"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_SCHEDULE_CACHE"),
		TTL:     parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 10*time.Minute),
	}

	workers := v.GetInt("NOTIFY_WORKERS")
	if workers <= 0 {
		workers = 1
	}
	cfg.Reminder = ReminderConfig{
		Lead:            parseDuration(v.GetString("REMINDER_LEAD"), 5*time.Minute),
		PollInterval:    parseDuration(v.GetString("REMINDER_POLL_INTERVAL"), time.Minute),
		WeekendInterval: parseDuration(v.GetString("REMINDER_WEEKEND_INTERVAL"), 10*time.Minute),
		Desktop:         v.GetBool("ENABLE_DESKTOP_NOTIFICATIONS"),
		AppName:         v.GetString("NOTIFY_APP_NAME"),
		Workers:         workers,
		Retries:         v.GetInt("NOTIFY_RETRIES"),
	}

	cfg.Export = ExportConfig{Dir: v.GetString("EXPORT_DIR")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("TIMEZONE", "Africa/Nairobi")

	v.SetDefault("TIMETABLE_FILE", "timetable_data.json")
	v.SetDefault("ASSIGNMENT_STORE", StoreFile)
	v.SetDefault("ASSIGNMENTS_FILE", "teacher_assignments.json")
	v.SetDefault("SQLITE_PATH", "timetable.db")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_SCHEDULE_CACHE", false)
	v.SetDefault("SCHEDULE_CACHE_TTL", "10m")

	v.SetDefault("REMINDER_LEAD", "5m")
	v.SetDefault("REMINDER_POLL_INTERVAL", "60s")
	v.SetDefault("REMINDER_WEEKEND_INTERVAL", "10m")
	v.SetDefault("ENABLE_DESKTOP_NOTIFICATIONS", false)
	v.SetDefault("NOTIFY_APP_NAME", "Sternfield Timetable")
	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_RETRIES", 0)

	v.SetDefault("EXPORT_DIR", "exports")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
