package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SHORTLINK_"

// RatePolicy is the configured limit and window of one admission policy.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

type Config struct {
	Addr     string
	DataDir  string
	DBPath   string
	LogLevel string
	BaseURL  string
	NodeID   int64

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeoProviderURL   string
	GeoTimeout       time.Duration
	GeoRatePerMinute int
	ProxyURL         string

	JWTSecret     string
	DevOwnerID    string
	EnableSwagger bool

	SweepInterval    time.Duration
	MaxAllocAttempts int
	Workers          int
	QueueSize        int
	TaskTimeout      time.Duration

	RateGeneral RatePolicy
	RateCreate  RatePolicy
	RateAuth    RatePolicy
	RateOwner   RatePolicy
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	dataDir := envString("DATA_DIR", "data")
	dbPath := envString("DB_PATH", "")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "shortlink.db")
	}
	if !IsRemoteDSN(dbPath) {
		dbPath = filepath.Clean(dbPath)
	}

	return Config{
		Addr:     envString("ADDR", ":8080"),
		DataDir:  dataDir,
		DBPath:   dbPath,
		LogLevel: envString("LOG_LEVEL", "info"),
		BaseURL:  strings.TrimRight(envString("BASE_URL", "http://localhost:8080"), "/"),
		NodeID:   int64(envInt("NODE_ID", 0)),

		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		GeoProviderURL:   envString("GEO_PROVIDER_URL", ""),
		GeoTimeout:       envDuration("GEO_TIMEOUT", 2*time.Second),
		GeoRatePerMinute: envInt("GEO_RATE_PER_MINUTE", 45),
		ProxyURL:         envString("PROXY_URL", ""),

		JWTSecret:     envString("JWT_SECRET", ""),
		DevOwnerID:    envString("DEV_OWNER", ""),
		EnableSwagger: envBool("ENABLE_SWAGGER", false),

		SweepInterval:    envDuration("SWEEP_INTERVAL", time.Minute),
		MaxAllocAttempts: envInt("MAX_ALLOC_ATTEMPTS", 5),
		Workers:          envInt("WORKERS", 4),
		QueueSize:        envInt("QUEUE_SIZE", 1024),
		TaskTimeout:      envDuration("TASK_TIMEOUT", 5*time.Second),

		RateGeneral: envPolicy("GENERAL", RatePolicy{Limit: 100, Window: time.Minute}),
		RateCreate:  envPolicy("CREATE", RatePolicy{Limit: 10, Window: time.Minute}),
		RateAuth:    envPolicy("AUTH", RatePolicy{Limit: 5, Window: 15 * time.Minute}),
		RateOwner:   envPolicy("OWNER", RatePolicy{Limit: 50, Window: time.Minute}),
	}
}

// IsRemoteDSN reports whether dsn points at a libsql server instead of a local file.
func IsRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://") ||
		strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "http://")
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := envString(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := envString(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envBool(key string, fallback bool) bool {
	v := envString(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envPolicy(name string, fallback RatePolicy) RatePolicy {
	p := RatePolicy{
		Limit:  envInt("RATE_"+name+"_LIMIT", fallback.Limit),
		Window: envDuration("RATE_"+name+"_WINDOW", fallback.Window),
	}
	if p.Limit == 0 {
		p.Limit = fallback.Limit
	}
	return p
}
