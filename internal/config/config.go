package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	AppEnv          string
	Port            string
	MongoURI        string
	DBName          string
	JWTSecret       string
	UserTokenTTL    time.Duration
	AdminTokenTTL   time.Duration
	AdminEmail      string
	AdminPassword   string
	StripeSecretKey string
	FrontendURL     string
}

func Load() {
	_ = godotenv.Load()

	AppEnv = Config{
		AppEnv:          getEnvOrDefault("APP_ENV", "development"),
		Port:            getEnvOrDefault("PORT", "4000"),
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		UserTokenTTL:    getDurationEnv("USER_TOKEN_TTL", 7, 24*time.Hour),
		AdminTokenTTL:   getDurationEnv("ADMIN_TOKEN_TTL", 1, time.Hour),
		AdminEmail:      getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:   getEnvOrDefault("ADMIN_PASSWORD", ""),
		StripeSecretKey: getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
