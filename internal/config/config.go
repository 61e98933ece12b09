package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	AutoMigrate       bool

	// Session
	SessionMaxAge      int
	SessionRequireUser bool

	// Server
	ServerPort      string
	BaseURL         string
	RoutePrefix     string
	ShutdownTimeout time.Duration

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string

	// Tracing
	OTELEndpoint    string
	OTELInsecure    bool
	OTELServiceName string
}

// defaultSessionMaxAge はセッションCookieの有効期間（7日、秒単位）。
const defaultSessionMaxAge = 7 * 24 * 60 * 60

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 25)
	cfg.DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	cfg.AutoMigrate = getEnvBool("AUTO_MIGRATE", false)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", defaultSessionMaxAge)
	cfg.SessionRequireUser = getEnvBool("SESSION_REQUIRE_USER", true)
	cfg.ServerPort = getEnvString("SERVER_PORT", "3333")
	cfg.BaseURL = getEnvString("BASE_URL", "")
	cfg.RoutePrefix = normalizePrefix(getEnvString("ROUTE_PREFIX", "/diety"))
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.OTELEndpoint = getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.OTELInsecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	cfg.OTELServiceName = getEnvString("OTEL_SERVICE_NAME", "diety")

	return cfg, nil
}

// normalizePrefix はルートプレフィックスを "/xxx" 形式に揃える。
// 空文字列または "/" の場合は "/" を返す。
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
