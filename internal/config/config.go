package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Storefront struct {
	HTTPPort           string
	BackendAddr        string
	RPCTimeout         time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	StaleTime          time.Duration
	AllowAnonymous     bool
	JWTSecret          string
	RedisAddr          string
	RedisPassword      string
	SessionTTL         time.Duration
	RateLimitRPS       int
	RateLimitBurst     int
	TrustProxyHeaders  bool
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	LogLevel           string
	LogPretty          bool
}

type Backend struct {
	GRPCPort     string
	DBPath       string
	JWTSecret    string
	DevPrincipal string
	LogLevel     string
	LogPretty    bool
}

// LoadEnvFile loads variables from a .env file when one exists. Variables
// already present in the environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func LoadStorefront() (*Storefront, error) {
	cfg := &Storefront{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendAddr:        getEnv("BACKEND_ADDR", "localhost:50051"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		BreakerMaxFailures: 5,
	}

	var err error
	if cfg.RPCTimeout, err = getDuration("RPC_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.StaleTime, err = getDuration("STALE_TIME", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.AllowAnonymous, err = getBool("ALLOW_ANONYMOUS", true); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = getBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if cfg.TrustProxyHeaders, err = getBool("TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getInt("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}
	failures, err := getInt("BREAKER_MAX_FAILURES", int(cfg.BreakerMaxFailures))
	if err != nil {
		return nil, err
	}
	if failures < 1 {
		return nil, fmt.Errorf("BREAKER_MAX_FAILURES must be positive, got %d", failures)
	}
	cfg.BreakerMaxFailures = uint32(failures)

	return cfg, nil
}

func LoadBackend() (*Backend, error) {
	cfg := &Backend{
		GRPCPort:     getEnv("GRPC_PORT", ":50051"),
		DBPath:       getEnv("DB_PATH", "./storefront.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		DevPrincipal: getEnv("DEV_PRINCIPAL", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
	var err error
	if cfg.LogPretty, err = getBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
