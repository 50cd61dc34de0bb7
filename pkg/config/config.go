// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTP         HTTPConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Auth         AuthConfig
	Ranking      RankingConfig
	Applications ApplicationsConfig
	LogLevel     string
	LogJSON      bool
}

type HTTPConfig struct {
	Port      string
	BodyLimit int
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"
)

type StorageConfig struct {
	Driver        string
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
	LocalDir      string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type RankingConfig struct {
	ServiceURL     string
	Timeout        time.Duration
	MaxConcurrency int
	CacheTTL       time.Duration
}

type ApplicationsConfig struct {
	MaxResumeBytes    int
	StrictTransitions bool
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:      getEnv("PORT", "8080"),
			BodyLimit: getEnvInt("HTTP_BODY_LIMIT", 10*1024*1024),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "jobboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASS"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverS3)),
			Region:        os.Getenv("AWS_REGION"),
			Bucket:        os.Getenv("AWS_BUCKET"),
			Prefix:        getEnv("STORAGE_PREFIX", "uploads"),
			PublicBaseURL: os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "./data/uploads"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Ranking: RankingConfig{
			ServiceURL:     getEnv("ML_SERVICE_URL", "http://localhost:5000"),
			Timeout:        getEnvDuration("RANKING_TIMEOUT", 60*time.Second),
			MaxConcurrency: getEnvInt("RANKING_MAX_CONCURRENCY", 8),
			CacheTTL:       getEnvDuration("RANKING_CACHE_TTL", 10*time.Minute),
		},
		Applications: ApplicationsConfig{
			MaxResumeBytes:    getEnvInt("APPLICATION_MAX_RESUME_BYTES", 5*1024*1024),
			StrictTransitions: getEnvBool("APPLICATION_STRICT_TRANSITIONS", false),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("LOG_JSON", false),
	}

	if cfg.Storage.Driver == StorageDriverLocal && cfg.Storage.PublicBaseURL == "" {
		cfg.Storage.PublicBaseURL = "http://localhost:" + cfg.HTTP.Port + "/files"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for values that cannot work together
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("config error: AWS_BUCKET is required when STORAGE_DRIVER=s3")
		}
	case StorageDriverLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("config error: STORAGE_LOCAL_DIR is required when STORAGE_DRIVER=local")
		}
	default:
		return fmt.Errorf("config error: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Ranking.ServiceURL == "" {
		return fmt.Errorf("config error: ML_SERVICE_URL cannot be empty")
	}
	if c.Ranking.Timeout <= 0 {
		return fmt.Errorf("config error: RANKING_TIMEOUT must be positive, got %s", c.Ranking.Timeout)
	}
	if c.Ranking.MaxConcurrency < 1 {
		return fmt.Errorf("config error: RANKING_MAX_CONCURRENCY must be at least 1, got %d", c.Ranking.MaxConcurrency)
	}
	if c.Applications.MaxResumeBytes < 1 {
		return fmt.Errorf("config error: APPLICATION_MAX_RESUME_BYTES must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
