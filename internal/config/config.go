package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Paystack PaystackConfig
	Media    MediaConfig
	Email    EmailConfig
	Pricing  PricingConfig

	AdminAPIToken string
}

type PaystackConfig struct {
	SecretKey string
	BaseURL   string
}

type MediaConfig struct {
	// Provider is one of "hosted", "local" or "none".
	Provider     string
	UploadURL    string
	UploadPreset string
	LocalDir     string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

type PricingConfig struct {
	StudentAmount int64
	GeneralAmount int64
	AddOnAmount   int64
	Currency      string
}

// Load loads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_SERVICE", "lexperience")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")

	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "lexperience")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 25)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)

	v.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")

	v.SetDefault("MEDIA_PROVIDER", "local")

	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("TICKET_PRICE_STUDENT", 10000)
	v.SetDefault("TICKET_PRICE_GENERAL", 15000)
	v.SetDefault("TICKET_PRICE_ADDON", 12000)
	v.SetDefault("TICKET_CURRENCY", "NGN")

	return Config{
		AppName:     v.GetString("APP_SERVICE"),
		AppVersion:  v.GetString("APP_VERSION"),
		Environment: v.GetString("ENVIRONMENT"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),

		DBType:            v.GetString("DATABASE_TYPE"),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),

		Paystack: PaystackConfig{
			SecretKey: strings.TrimSpace(v.GetString("PAYSTACK_SECRET_KEY")),
			BaseURL:   strings.TrimSpace(v.GetString("PAYSTACK_BASE_URL")),
		},
		Media: MediaConfig{
			Provider:     strings.ToLower(strings.TrimSpace(v.GetString("MEDIA_PROVIDER"))),
			UploadURL:    strings.TrimSpace(v.GetString("MEDIA_UPLOAD_URL")),
			UploadPreset: strings.TrimSpace(v.GetString("MEDIA_UPLOAD_PRESET")),
			LocalDir:     strings.TrimSpace(v.GetString("MEDIA_LOCAL_DIR")),
		},
		Email: EmailConfig{
			SMTPHost:     strings.TrimSpace(v.GetString("SMTP_HOST")),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			SMTPFrom:     strings.TrimSpace(v.GetString("SMTP_FROM")),
		},
		Pricing: PricingConfig{
			StudentAmount: v.GetInt64("TICKET_PRICE_STUDENT"),
			GeneralAmount: v.GetInt64("TICKET_PRICE_GENERAL"),
			AddOnAmount:   v.GetInt64("TICKET_PRICE_ADDON"),
			Currency:      strings.ToUpper(strings.TrimSpace(v.GetString("TICKET_CURRENCY"))),
		},

		AdminAPIToken: strings.TrimSpace(v.GetString("ADMIN_API_TOKEN")),
	}
}
