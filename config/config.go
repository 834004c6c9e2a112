package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	Headless       bool
	RequestTimeout time.Duration
	NavTimeout     time.Duration
	WaitTimeout    time.Duration
	LoadDelay      time.Duration
	MinDelay       time.Duration
	MaxDelay       time.Duration
	MaxLoadRounds  int
	MaxReviews     int
	MaxRetries     int

	LinkedInDeepProfiles bool

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBEnabled  bool

	RedisAddr     string
	CachePrefix   string
	CacheTTL      time.Duration
	BrightDataURL string
	BrightDataKey string
	BrightDataSet string
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     ":8000",
		Headless:       true,
		RequestTimeout: 60 * time.Second,
		NavTimeout:     20 * time.Second,
		WaitTimeout:    20 * time.Second,
		LoadDelay:      2 * time.Second,
		MinDelay:       2 * time.Second,
		MaxDelay:       5 * time.Second,
		MaxLoadRounds:  10,
		MaxReviews:     50,
		MaxRetries:     3,

		DBHost:     "localhost",
		DBPort:     5432,
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "business_scraper",
		DBSSLMode:  "disable",

		CachePrefix:   "resolve:",
		CacheTTL:      24 * time.Hour,
		BrightDataURL: "https://api.brightdata.com/datasets/v3/trigger",
		BrightDataSet: "gd_l1viktl72bvl7bjuj0",
	}
}

// Load reads a .env file if present and overlays environment variables on
// top of the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.ListenAddr = valueOrDefault(os.Getenv("LISTEN_ADDR"), cfg.ListenAddr)

	headless, err := parseBoolEnv("HEADLESS", cfg.Headless)
	if err != nil {
		return nil, err
	}
	cfg.Headless = headless

	deep, err := parseBoolEnv("LINKEDIN_DEEP_PROFILES", false)
	if err != nil {
		return nil, err
	}
	cfg.LinkedInDeepProfiles = deep

	cfg.RequestTimeout = parseDurationEnv("REQUEST_TIMEOUT_MS", cfg.RequestTimeout)
	cfg.NavTimeout = parseDurationEnv("NAV_TIMEOUT_MS", cfg.NavTimeout)
	cfg.WaitTimeout = parseDurationEnv("WAIT_TIMEOUT_MS", cfg.WaitTimeout)
	cfg.LoadDelay = parseDurationEnv("LOAD_DELAY_MS", cfg.LoadDelay)
	cfg.MinDelay = parseDurationEnv("RANDOM_DELAY_MIN_MS", cfg.MinDelay)
	cfg.MaxDelay = parseDurationEnv("RANDOM_DELAY_MAX_MS", cfg.MaxDelay)
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MinDelay, cfg.MaxDelay = cfg.MaxDelay, cfg.MinDelay
	}

	cfg.MaxLoadRounds = parseIntEnv("MAX_LOAD_ROUNDS", cfg.MaxLoadRounds)
	cfg.MaxReviews = parseIntEnv("MAX_REVIEWS", cfg.MaxReviews)
	cfg.MaxRetries = parseIntEnv("MAX_RETRIES", cfg.MaxRetries)

	cfg.DBHost = valueOrDefault(os.Getenv("DB_HOST"), cfg.DBHost)
	cfg.DBPort = parseIntEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = valueOrDefault(os.Getenv("DB_USER"), cfg.DBUser)
	cfg.DBPassword = valueOrDefault(os.Getenv("DB_PASSWORD"), cfg.DBPassword)
	cfg.DBName = valueOrDefault(os.Getenv("DB_NAME"), cfg.DBName)
	cfg.DBSSLMode = valueOrDefault(os.Getenv("DB_SSLMODE"), cfg.DBSSLMode)
	dbEnabled, err := parseBoolEnv("DB_ARCHIVE", false)
	if err != nil {
		return nil, err
	}
	cfg.DBEnabled = dbEnabled

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.CachePrefix = valueOrDefault(os.Getenv("CACHE_PREFIX"), cfg.CachePrefix)
	cfg.CacheTTL = parseDurationEnv("CACHE_TTL_MS", cfg.CacheTTL)

	cfg.BrightDataURL = valueOrDefault(os.Getenv("BRIGHTDATA_TRIGGER_URL"), cfg.BrightDataURL)
	cfg.BrightDataKey = strings.TrimSpace(os.Getenv("BRIGHTDATA_AUTH_TOKEN"))
	cfg.BrightDataSet = valueOrDefault(os.Getenv("BRIGHTDATA_DATASET_ID"), cfg.BrightDataSet)

	return cfg, nil
}

// DSN builds the Postgres connection string for the archive writer.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func valueOrDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func parseIntEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseDurationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
