package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLifecycleDB int    `mapstructure:"REDIS_LIFECYCLE_DB"`

	// Stripe API key (payment collaborator).
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Booking policy.
	SearchRadiusKm      float64 `mapstructure:"SEARCH_RADIUS_KM"`
	CandidateLimit      int     `mapstructure:"CANDIDATE_LIMIT"`
	CancellationLeadHrs int     `mapstructure:"CANCELLATION_LEAD_HOURS"`
	MinHourlyMinutes    int     `mapstructure:"MIN_HOURLY_MINUTES"`
	MinDailyMinutes     int     `mapstructure:"MIN_DAILY_MINUTES"`
	MinMonthlyMinutes   int     `mapstructure:"MIN_MONTHLY_MINUTES"`
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
	viper.SetDefault("REDIS_LIFECYCLE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "parkly")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("SEARCH_RADIUS_KM", 5.0)
	viper.SetDefault("CANDIDATE_LIMIT", 3)
	viper.SetDefault("CANCELLATION_LEAD_HOURS", 24)
	// Minimum durations per booking type; confirm against business rules
	// before changing (they differ across historical variants).
	viper.SetDefault("MIN_HOURLY_MINUTES", 15)
	viper.SetDefault("MIN_DAILY_MINUTES", 60)
	viper.SetDefault("MIN_MONTHLY_MINUTES", 1440)

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
