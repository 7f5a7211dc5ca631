package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	// Application
	AppEnv string
	Port   string

	// Database (driver switch via ENV, default: sqlite)
	DBDriver          string
	DBConnection      string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Uploads
	StorageDriver string // "local" or "s3"
	UploadDir     string
	UploadMaxSize int64

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services
	S3PresignExpiry time.Duration // Expiry for presigned image URLs

	// Login throttling per client IP
	LoginRateLimit  int
	LoginRateWindow time.Duration
	TrustProxy      bool // Take the client IP from X-Forwarded-For / X-Real-IP

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppEnv: envString("APP_ENV", "development"),
		Port:   envString("PORT", "3000"),

		// Database
		DBDriver:          envString("DB_DRIVER", "sqlite"),
		DBConnection:      envString("DB_CONNECTION", ""),
		DBHost:            envString("DB_HOST", "localhost"),
		DBPort:            envString("DB_PORT", ""),
		DBUser:            envString("DB_USER", ""),
		DBPassword:        envString("DB_PASSWORD", ""),
		DBName:            envString("DB_NAME", "commutes"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
		DBMaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		// Uploads
		StorageDriver: envString("STORAGE_DRIVER", StorageLocal),
		UploadDir:     envString("UPLOAD_DIR", "uploads"),
		UploadMaxSize: int64(envInt("UPLOAD_MAX_SIZE", 5<<20)), // 5MB

		// Storage
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour), // 7 days

		// Login throttling
		LoginRateLimit:  envInt("LOGIN_RATE_LIMIT", 20),
		LoginRateWindow: envDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		TrustProxy:      envBool("TRUST_PROXY", false),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == StorageS3 {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envRequired("S3_ACCESS_KEY")
		cfg.S3SecretKey = envRequired("S3_SECRET_KEY")
	}

	return cfg
}

// DSN returns the connection string for the configured driver.
// An explicit DB_CONNECTION always wins; otherwise it is assembled from
// the DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME parts.
func (c *Config) DSN() string {
	if c.DBConnection != "" {
		return c.DBConnection
	}

	switch c.DBDriver {
	case "pgx":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPassword, c.DBHost, port, c.DBName)
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		mc := mysql.NewConfig()
		mc.User = c.DBUser
		mc.Passwd = c.DBPassword
		mc.Net = "tcp"
		mc.Addr = c.DBHost + ":" + port
		mc.DBName = c.DBName
		// Affected-row counts must report matched rows, not changed rows,
		// or an update with identical values looks like a missing record.
		mc.ClientFoundRows = true
		return mc.FormatDSN()
	default:
		// _txlock=immediate takes the write lock at BEGIN, so transactions
		// that read before writing queue on busy_timeout instead of failing.
		return "./data/commutes.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
