package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RateLimit is an ulule/limiter formatted rate, e.g. "120-M".
	RateLimit string

	// Google Drive document store
	DriveCredentialsFile string `mapstructure:"DRIVE_CREDENTIALS_FILE"`
	DriveFolderID        string `mapstructure:"DRIVE_FOLDER_ID"`

	// Analytics
	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`

	// Letterhead details for rendered bills and receipts
	HospitalName    string `mapstructure:"HOSPITAL_NAME"`
	HospitalAddress string `mapstructure:"HOSPITAL_ADDRESS"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "hospital-billing-app")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
	viper.SetDefault("DRIVE_FOLDER_ID", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("HOSPITAL_NAME", "City Hospital")
	viper.SetDefault("HOSPITAL_ADDRESS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 8 * time.Hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "hospital-billing-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.DriveCredentialsFile = viper.GetString("DRIVE_CREDENTIALS_FILE")
	cfg.DriveFolderID = viper.GetString("DRIVE_FOLDER_ID")
	if cfg.DriveCredentialsFile == "" {
		log.Println("Warning: DRIVE_CREDENTIALS_FILE not set. Document upload will be disabled.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.HospitalName = viper.GetString("HOSPITAL_NAME")
	cfg.HospitalAddress = viper.GetString("HOSPITAL_ADDRESS")

	return cfg, nil
}
