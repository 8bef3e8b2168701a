package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	GinMode          string
	MongoURI         string
	MongoDatabase    string
	RabbitMQURI      string
	RabbitMQExchange string
	JWTSecret        string
	JWTRefreshSecret string
	GeminiBaseURL    string
	GeminiModel      string
	GeminiAPIKey     string
	AdminEmail       string
	AdminPassword    string
	AllowOrigins     string
}

// Load reads .env (when present) and the process environment. The result is
// passed explicitly to main's wiring; nothing here is kept as package state.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	return &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "aurora"),
		RabbitMQURI:      getEnvOrDefault("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", ""),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "dev-access-secret"),
		JWTRefreshSecret: getEnvOrDefault("JWT_REFRESH_SECRET", "dev-refresh-secret"),
		GeminiBaseURL:    getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiAPIKey:     getEnvOrDefault("GOOGLE_API_KEY", ""),
		AdminEmail:       getEnvOrDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:    getEnvOrDefault("ADMIN_PASSWORD", "Admin@123"),
		AllowOrigins:     getEnvOrDefault("ALLOW_ORIGINS", "http://localhost:5173"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
