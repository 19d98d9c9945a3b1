package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret          string
	JWTExpiry          time.Duration
	AuthRateLimit      int
	AuthRateWindow     time.Duration
	CORSAllowedOrigins []string
	TrustProxyHeaders  bool // Honor X-Forwarded-For / X-Real-IP for rate limiting

	// Documents
	MaxUploadBytes int64
	StorageDriver  string // "local" or "s3"
	UploadDir      string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)

	// Email
	EmailFrom    string
	EmailDomain  string // Domain part of generated Message-IDs
	ResendAPIKey string

	// Search providers (stub mode when the key is empty)
	ScorecardAPIKey   string
	ScorecardAPIURL   string
	ScorecardTimeout  time.Duration
	PerplexityAPIKey  string
	PerplexityAPIURL  string
	PerplexityModel   string
	PerplexityTimeout time.Duration
	SearchCacheURL    string
	SearchCacheTTL    time.Duration

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
		AppName: envString("APP_NAME", "Program Pal"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/pathfinder.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate&_time_format=sqlite"),

		// Security
		JWTSecret:          envRequired("JWT_SECRET"),
		JWTExpiry:          envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		AuthRateLimit:      envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:     envDuration("AUTH_RATE_WINDOW", 15*time.Minute),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),
		TrustProxyHeaders:  envBool("TRUST_PROXY_HEADERS", false),

		// Documents
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10<<20), // 10MB
		StorageDriver:  envString("STORAGE_DRIVER", "local"),
		UploadDir:      envString("UPLOAD_DIR", "./data/uploads"),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		EmailDomain:  envString("EMAIL_DOMAIN", "programpal.local"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Search
		ScorecardAPIKey:   envString("SCORECARD_API_KEY", ""),
		ScorecardAPIURL:   envString("SCORECARD_API_URL", "https://api.data.gov/ed/collegescorecard/v1/schools.json"),
		ScorecardTimeout:  envDuration("SCORECARD_TIMEOUT", 20*time.Second),
		PerplexityAPIKey:  envString("PERPLEXITY_API_KEY", ""),
		PerplexityAPIURL:  envString("PERPLEXITY_API_URL", "https://api.perplexity.ai/chat/completions"),
		PerplexityModel:   envString("PERPLEXITY_MODEL", "llama-3-sonar-large-32k-online"),
		PerplexityTimeout: envDuration("PERPLEXITY_TIMEOUT", 60*time.Second),
		SearchCacheURL:    envString("SEARCH_CACHE_URL", ""),
		SearchCacheTTL:    envDuration("SEARCH_CACHE_TTL", 15*time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// S3 credentials only matter when the S3 backend is selected
	if cfg.UseS3() {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envRequired("S3_ACCESS_KEY")
		cfg.S3SecretKey = envRequired("S3_SECRET_KEY")
		cfg.S3Endpoint = envString("S3_ENDPOINT", "")
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to run in log mode for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
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

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

// envList splits a comma separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
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

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UseS3 reports whether documents go to the S3 backend instead of local disk.
func (c *Config) UseS3() bool {
	return c.StorageDriver == "s3"
}
