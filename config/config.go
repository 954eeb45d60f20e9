package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config is read once at startup. The dev bypass flags are forced off
// outside the development environment no matter what the env says.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CookieDomain  string
	SecureCookies bool

	TOTPIssuer string

	SkipAuth     bool
	DevBypass2FA bool
	DevUserID    uuid.UUID
	DevUserEmail string

	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string

	StripeSecretKey    string
	StripeSuccessURL   string
	StripeCancelURL    string
	StripeMonthlyPrice string
	StripeYearlyPrice  string

	MailchimpAPIKey string
	MailchimpListID string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %s", err)
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "production"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       getEnv("JWT_ISSUER", "cvstudio"),
		AccessTokenTTL:  durationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: durationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour),

		CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
		SecureCookies: os.Getenv("COOKIE_SECURE") != "false",

		TOTPIssuer: getEnv("TOTP_ISSUER", "CV Studio"),

		DevUserEmail: getEnv("DEV_USER_EMAIL", "dev@example.com"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "CV Studio <noreply@cvstudio.app>"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:3000"),

		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		StripeSuccessURL:   getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/billing/success"),
		StripeCancelURL:    getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/pricing"),
		StripeMonthlyPrice: os.Getenv("STRIPE_PRICE_MONTHLY"),
		StripeYearlyPrice:  os.Getenv("STRIPE_PRICE_YEARLY"),

		MailchimpAPIKey: os.Getenv("MAILCHIMP_API_KEY"),
		MailchimpListID: os.Getenv("MAILCHIMP_LIST_ID"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	// The bypasses only exist for local development against a frontend
	// with no auth flow wired up yet.
	if cfg.Env == "development" {
		cfg.SkipAuth = boolEnv("SKIP_AUTH")
		cfg.DevBypass2FA = boolEnv("SKIP_2FA")
		if id, err := uuid.Parse(os.Getenv("DEV_USER_ID")); err == nil {
			cfg.DevUserID = id
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func boolEnv(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
