package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	MongoURI        string
	MongoDatabase   string
	ServerPort      string
	FrontendURL     string
	WebhookSecret   string
	ClerkSecretKey  string
	OpenAIKey       string
	OpenAIBaseURL   string
	ImageModel      string
	RedisURL        string
	RateLimit       string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DB", "imaginify"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		WebhookSecret:   getEnv("CLERK_WEBHOOK_SECRET", ""),
		ClerkSecretKey:  getEnv("CLERK_SECRET_KEY", ""),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		ImageModel:      getEnv("IMAGE_MODEL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		RateLimit:       getEnv("RATE_LIMIT", "100-M"),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	// The webhook secret and the Clerk/OpenAI keys are checked at the point
	// of use so the rest of the service keeps working when one integration
	// is unconfigured.

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
