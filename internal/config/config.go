package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maltedev/dealwatch/internal/models"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scraper   ScraperConfig
	Scheduler SchedulerConfig
	Notifier  NotifierConfig
	Logging   LoggingConfig
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
	Name     string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type ScraperConfig struct {
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	RateLimitMin   time.Duration
	RateLimitMax   time.Duration
	Retailers      []models.Retailer
}

type SchedulerConfig struct {
	UpdateInterval       time.Duration
	DropThresholdPercent float64
}

type NotifierConfig struct {
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioWhatsAppTo   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			Name:     getEnvOrDefault("DB_NAME", "dealwatch"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 10)),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Stream:   getEnvOrDefault("REDIS_STREAM", "stream:price_drops"),
		},
		Scraper: ScraperConfig{
			RequestTimeout: getDurationOrDefault("SCRAPER_REQUEST_TIMEOUT", 15*time.Second),
			MaxRetries:     getIntOrDefault("SCRAPER_MAX_RETRIES", 3),
			RetryDelay:     getDurationOrDefault("SCRAPER_RETRY_DELAY", 2*time.Second),
			RateLimitMin:   getDurationOrDefault("SCRAPER_RATE_LIMIT_MIN", 1*time.Second),
			RateLimitMax:   getDurationOrDefault("SCRAPER_RATE_LIMIT_MAX", 3*time.Second),
			Retailers:      getRetailersOrDefault("SCRAPER_RETAILERS", models.GlobalRetailers),
		},
		Scheduler: SchedulerConfig{
			UpdateInterval:       getDurationOrDefault("UPDATE_INTERVAL", 30*time.Minute),
			DropThresholdPercent: getFloatOrDefault("PRICE_DROP_THRESHOLD_PERCENT", 5),
		},
		Notifier: NotifierConfig{
			TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
			TwilioWhatsAppTo:   os.Getenv("TWILIO_WHATSAPP_TO"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES must be at least 1")
	}

	if c.Scraper.RateLimitMin > c.Scraper.RateLimitMax {
		return fmt.Errorf("SCRAPER_RATE_LIMIT_MIN cannot be greater than SCRAPER_RATE_LIMIT_MAX")
	}

	if c.Scheduler.DropThresholdPercent < 0 {
		return fmt.Errorf("PRICE_DROP_THRESHOLD_PERCENT cannot be negative")
	}

	if len(c.Scraper.Retailers) == 0 {
		return fmt.Errorf("SCRAPER_RETAILERS cannot be empty")
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

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

func getRetailersOrDefault(key string, defaultValue []models.Retailer) []models.Retailer {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var retailers []models.Retailer
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name != "" {
			retailers = append(retailers, models.Retailer(name))
		}
	}
	return retailers
}
