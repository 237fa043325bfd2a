package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Settings holds the static scrape parameters. It is passed explicitly
// into the scraper instead of being read from process-wide state.
type Settings struct {
	BaseURL         string
	Headers         map[string]string
	RequestTimeout  time.Duration
	ExchangeAPI     string
	ExchangeTimeout time.Duration
	FallbackRate    float64
	MaxImages       int
	UseBrowser      bool
}

// DefaultSettings returns the header set and limits the scraper ships with.
func DefaultSettings() Settings {
	return Settings{
		BaseURL: "https://www.amazon.com",
		Headers: map[string]string{
			"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Accept-Encoding":           "gzip, deflate",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		},
		RequestTimeout:  30 * time.Second,
		ExchangeAPI:     "https://api.exchangerate-api.com/v4/latest/USD",
		ExchangeTimeout: 5 * time.Second,
		FallbackRate:    0.00359,
		MaxImages:       10,
	}
}

type Config struct {
	Server   ServerConfig
	Scraper  Settings
	Database DatabaseConfig
	Redis    RedisConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JobsConfig struct {
	PollInterval time.Duration
	RelayBatch   int
}

func Load() (*Config, error) {
	settings := DefaultSettings()
	settings.BaseURL = getEnvOrDefault("SCRAPER_BASE_URL", settings.BaseURL)
	settings.RequestTimeout = getDurationOrDefault("SCRAPER_REQUEST_TIMEOUT", settings.RequestTimeout)
	settings.ExchangeTimeout = getDurationOrDefault("SCRAPER_EXCHANGE_TIMEOUT", settings.ExchangeTimeout)
	settings.MaxImages = getIntOrDefault("SCRAPER_MAX_IMAGES", settings.MaxImages)
	settings.UseBrowser = getBoolOrDefault("SCRAPER_USE_BROWSER", false)

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: settings,
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "amazon_scraper"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Jobs: JobsConfig{
			PollInterval: getDurationOrDefault("JOBS_POLL_INTERVAL", 5*time.Second),
			RelayBatch:   getIntOrDefault("RELAY_BATCH_SIZE", 100),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxImages < 1 {
		return fmt.Errorf("SCRAPER_MAX_IMAGES must be at least 1")
	}

	if c.Scraper.RequestTimeout <= 0 {
		return fmt.Errorf("SCRAPER_REQUEST_TIMEOUT must be positive")
	}

	if c.Jobs.RelayBatch < 1 {
		return fmt.Errorf("RELAY_BATCH_SIZE must be at least 1")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
