package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CartTTL         time.Duration

	// BaseURL is the publicly reachable address of this server; the gateway
	// posts its callbacks there. FrontendURL hosts the user-facing result
	// pages the bridge redirects to.
	BaseURL     string
	FrontendURL string

	GatewayStoreID       string
	GatewayStorePassword string
	GatewayLive          bool
	GatewayTimeout       time.Duration
	Currency             string
	ShippingAmount       string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "organic_food_store"),
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnvOrDefault("REDIS_PASSWORD", ""),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),
		CartTTL:         getDurationEnv("CART_TTL", 14, 24*time.Hour),

		BaseURL:     getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		GatewayStoreID:       getEnvOrDefault("STORE_ID", ""),
		GatewayStorePassword: getEnvOrDefault("STORE_PASSWORD", ""),
		GatewayLive:          getBoolEnv("GATEWAY_LIVE", false),
		GatewayTimeout:       getDurationEnv("GATEWAY_TIMEOUT", 30, time.Second),
		Currency:             getEnvOrDefault("CURRENCY", "BDT"),
		ShippingAmount:       getEnvOrDefault("SHIPPING_AMOUNT", "0"),

		SMTPHost:     getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:     getIntEnv("SMTP_PORT", 587),
		SMTPUsername: getEnvOrDefault("SMTP_USERNAME", ""),
		SMTPPassword: getEnvOrDefault("SMTP_PASSWORD", ""),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "noreply@organicfoodstore.com"),
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

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
