package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jokes-api/internal/auth"
	"jokes-api/internal/scheduler"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	LogLevel                string

	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	StoreDriver string
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int

	JokeAPIURL       string
	JokeFetchEnabled bool
	JokeFetchSpec    string
	JokeFetchTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 20*time.Second),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),

		SecretKey:      strings.TrimSpace(os.Getenv("SECRET_KEY")),
		Algorithm:      strings.ToUpper(getEnv("ALGORITHM", "HS256")),
		AccessTokenTTL: time.Duration(getInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		BcryptCost:     getInt("BCRYPT_COST", 12),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),

		JokeAPIURL:       getEnv("JOKE_API_URL", "https://icanhazdadjoke.com/"),
		JokeFetchEnabled: getBool("JOKE_FETCH_ENABLED", true),
		JokeFetchSpec:    getEnv("JOKE_FETCH_SCHEDULE", "@every 60s"),
		JokeFetchTimeout: getDuration("JOKE_FETCH_TIMEOUT", 15*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}

	if !auth.IsSupportedAlgorithm(c.Algorithm) {
		return fmt.Errorf("ALGORITHM %q is not supported", c.Algorithm)
	}

	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS out of range")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}

	u, err := url.Parse(c.JokeAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("JOKE_API_URL must be an absolute http(s) URL")
	}

	if c.JokeFetchEnabled {
		if err := scheduler.ValidateSpec(c.JokeFetchSpec); err != nil {
			return fmt.Errorf("JOKE_FETCH_SCHEDULE: %w", err)
		}
	}

	if c.JokeFetchTimeout <= 0 {
		return fmt.Errorf("JOKE_FETCH_TIMEOUT must be positive")
	}

	return nil
}

// TokenConfig is the signing configuration handed to the token service.
func (c *Config) TokenConfig() auth.TokenConfig {
	return auth.TokenConfig{Secret: c.SecretKey, Algorithm: c.Algorithm, TTL: c.AccessTokenTTL}
}

// String is safe to log: secrets and database credentials are omitted.
func (c *Config) String() string {
	return fmt.Sprintf(
		"port=%s store=%s algorithm=%s token_ttl=%s fetch_enabled=%t fetch_schedule=%q joke_api=%s",
		c.ServerPort, c.StoreDriver, c.Algorithm, c.AccessTokenTTL, c.JokeFetchEnabled, c.JokeFetchSpec, c.JokeAPIURL,
	)
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
