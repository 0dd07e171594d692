package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// API Configuration
	APIPort string
	APIHost string

	// Public callback base, e.g. https://sync.example.com.
	// Webhook subscriptions are registered against this URL.
	PublicBaseURL string

	// Shopify
	ShopifyAPIVersion string

	// Tenants: "shop1.myshopify.com:secret1:token1,shop2.myshopify.com:secret2:token2"
	Tenants string

	// Comma-separated shop domains with the related-products feature enabled
	RelatedShops string

	// Optional registration store
	DatabaseURL string

	// Optional outcome journal
	KafkaBrokers string
	KafkaTopic   string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", ""),
		ShopifyAPIVersion: getEnv("SHOPIFY_API_VERSION", "2024-10"),
		Tenants:           getEnv("TENANTS", ""),
		RelatedShops:      getEnv("RELATED_SHOPS", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "reconciliation-outcomes"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
