package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisJobDB    int    `mapstructure:"REDIS_JOB_DB"`

	// Admin API token for sync/debug endpoints.
	AdminToken string `mapstructure:"ADMIN_TOKEN"`

	// Google Calendar availability checks.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	AvailabilityDisabled  bool   `mapstructure:"AVAILABILITY_FILTERING_DISABLED"`

	// Cloudinary media storage (therapist photos and intro videos).
	CloudinaryURL       string `mapstructure:"CLOUDINARY_URL"`
	DefaultWelcomeVideo string `mapstructure:"DEFAULT_WELCOME_VIDEO"`

	// Upstream therapist roster (directory sync).
	RosterAPIKey  string `mapstructure:"ROSTER_API_KEY"`
	RosterBaseURL string `mapstructure:"ROSTER_BASE_URL"`
	RosterTable   string `mapstructure:"ROSTER_TABLE"`
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
	viper.SetDefault("REDIS_JOB_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("AVAILABILITY_FILTERING_DISABLED", false)
	viper.SetDefault("DEFAULT_WELCOME_VIDEO", "https://www.youtube.com/watch?v=OtNM4rS20Ts")
	viper.SetDefault("ROSTER_TABLE", "Therapists")

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
