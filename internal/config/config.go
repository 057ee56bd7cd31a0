package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/newsdesk/internal/db"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/crucial707/newsdesk/internal/session"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultSessionSecret is only acceptable outside prod.
const DefaultSessionSecret = "newsdesk-dev-secret"

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", SESSION_SECRET must be set and not the default,
	// and the session cookie is marked Secure.
	Env string

	// Storage selects the entity backend: "memory" (default) or "postgres".
	Storage string

	DBHost    string
	DBPort    string
	DBName    string
	DBUser    string
	DBPass    string
	DBSSLMode string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	SessionSecret string
	// SessionTTLHours is the session lifetime in hours (default 24). Set via SESSION_TTL_HOURS.
	SessionTTLHours int
	// SessionStore is "memory", "postgres" or "redis". Defaults to the Storage backend.
	SessionStore string
	// SessionSweepSchedule is the cron spec for pruning expired sessions (default "@every 1h").
	SessionSweepSchedule string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AdminUsername and AdminPassword, when both set, make sure that admin exists at startup.
	AdminUsername string
	AdminPassword string

	// SeedSampleArticles inserts the sample articles into an empty store at startup.
	SeedSampleArticles bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// CORSAllowedOrigins is a list of origins allowed to call the API with the session cookie.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string

	// TrustProxyHeaders makes the login/register throttle key on X-Forwarded-For.
	// Only set it behind a reverse proxy that rewrites that header.
	TrustProxyHeaders bool
}

// LoadDotEnv reads variables from the given files (".env" when none) into the
// environment without overriding what is already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func Load() Config {
	storage := getEnv("STORAGE", repo.KindMemory)
	env := getEnv("ENV", "dev")

	return Config{
		Port:    getEnv("PORT", "8080"),
		Env:     env,
		Storage: storage,

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBName:    getEnv("DB_NAME", "newsdesk"),
		DBUser:    getEnv("DB_USER", "newsdesk"),
		DBPass:    getEnv("DB_PASS", "newsdesk"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		SessionSecret:        getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTLHours:      getEnvInt("SESSION_TTL_HOURS", 24),
		SessionStore:         getEnv("SESSION_STORE", storage),
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", session.DefaultSweepSchedule),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		// Dev with in-memory storage starts with something to read.
		SeedSampleArticles: getEnvBool("SEED_SAMPLE_ARTICLES", env != "prod" && storage == repo.KindMemory),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Storage {
	case repo.KindMemory, repo.KindPostgres:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", repo.KindMemory, repo.KindPostgres, c.Storage)
	}
	switch c.SessionStore {
	case "memory", "redis":
	case "postgres":
		if c.Storage != repo.KindPostgres {
			return errors.New("SESSION_STORE=postgres requires STORAGE=postgres")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be memory, postgres or redis, got %q", c.SessionStore)
	}
	if c.IsProd() && (c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret) {
		return errors.New("SESSION_SECRET must be set to a non-default value when ENV=prod")
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// IsProd reports whether ENV=prod.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// SessionTTL returns the session lifetime.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// DB returns the connection settings for the database.
func (c Config) DB() db.Options {
	return db.Options{
		Host:         c.DBHost,
		Port:         c.DBPort,
		Name:         c.DBName,
		User:         c.DBUser,
		Password:     c.DBPass,
		SSLMode:      c.DBSSLMode,
		MaxOpenConns: c.DBMaxOpenConns,
		MaxIdleConns: c.DBMaxIdleConns,
	}
}

// Redis returns the connection settings for the session Redis.
func (c Config) Redis() session.RedisOptions {
	return session.RedisOptions{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
