package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Logging
		Database
		UI
		Catalog
		Session
		ReadOnly
		Tasks
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		Environment              string // "development" or "production"
		ShutdownTimeoutInSeconds int
	}
	Logging struct {
		Level string // zerolog level name
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // sqlite file
		DSN      string // postgres connection string
		LogLevel string // gorm logger: silent, error, warn, info
	}
	UI struct {
		TemplatesPath string // empty means embedded templates
		StaticPath    string
	}
	Catalog struct {
		DefaultGenres []string
	}
	Session struct {
		Secret        string // also keys CSRF tokens; generated when empty
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
		CSRFEnabled   bool
	}
	ReadOnly struct {
		Enabled bool
	}
	Tasks struct {
		Enabled               bool
		Workers               int
		ReleaseAfter          time.Duration
		CleanupInterval       time.Duration
		AuthorCleanupSchedule string // Cron format, empty disables
	}
	Audit struct {
		RetentionDays   int
		CleanupSchedule string // Cron format, empty disables
	}
)

// splitList turns a comma separated setting into trimmed, non-empty items.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func NewConfig() *Config {
	// A missing .env file is fine, the environment wins either way
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("app_env", "production")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "./static")
	v.SetDefault("default_genres", DefaultGenres)

	// Session and CSRF defaults
	v.SetDefault("session_secret", "") // Auto-generated if empty
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_enabled", true)

	v.SetDefault("read_only", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("author_cleanup_schedule", "") // e.g. "0 3 * * *"

	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_cleanup_schedule", "30 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			Environment:              v.GetString("APP_ENV"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: Database{
			Driver:   DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Catalog: Catalog{
			DefaultGenres: splitList(v.GetString("DEFAULT_GENRES")),
		},
		Session: Session{
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			CSRFEnabled:   v.GetBool("CSRF_ENABLED"),
		},
		ReadOnly: ReadOnly{
			Enabled: v.GetBool("READ_ONLY"),
		},
		Tasks: Tasks{
			Enabled:               v.GetBool("TASKS_ENABLED"),
			Workers:               v.GetInt("TASK_WORKERS"),
			ReleaseAfter:          v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:       v.GetDuration("TASK_CLEANUP_INTERVAL"),
			AuthorCleanupSchedule: v.GetString("AUTHOR_CLEANUP_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
	}
}

// IsDevelopment reports whether the app runs with developer conveniences
// such as console log output.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Global.Environment, "development")
}
