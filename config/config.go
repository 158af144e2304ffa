package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisRateDB   int    `mapstructure:"REDIS_RATE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// SMS provider (REST).
	SMSAccountID string `mapstructure:"SMS_ACCOUNT_ID"`
	SMSAuthToken string `mapstructure:"SMS_AUTH_TOKEN"`
	SMSFrom      string `mapstructure:"SMS_FROM"`
	SMSBaseURL   string `mapstructure:"SMS_BASE_URL"`

	// Shared secret required on the cron-triggered endpoints.
	CronSecret string `mapstructure:"CRON_SECRET"`

	// All civil dates in availability queries are interpreted in this zone.
	BusinessTimezone string `mapstructure:"BUSINESS_TIMEZONE"`

	// Background sweeps.
	ReminderSweepEvery time.Duration `mapstructure:"REMINDER_SWEEP_EVERY"`
	ReconcileAfterMin  int           `mapstructure:"RECONCILE_AFTER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_RATE_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("SMS_BASE_URL", "https://api.twilio.com/2010-04-01")
	viper.SetDefault("CRON_SECRET", "")
	viper.SetDefault("BUSINESS_TIMEZONE", "America/Los_Angeles")
	viper.SetDefault("REMINDER_SWEEP_EVERY", "15m")
	viper.SetDefault("RECONCILE_AFTER_MIN", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BusinessLocation resolves the configured business timezone, falling back to
// UTC if the name is invalid.
func BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BusinessTimezone)
	if err != nil {
		log.Printf("Invalid BUSINESS_TIMEZONE %q, falling back to UTC", AppConfig.BusinessTimezone)
		return time.UTC
	}
	return loc
}
