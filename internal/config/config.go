package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	DBDriver       string
	DatabaseDSN    string
	ResetDB        bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SessionBackend string
	JWTSecret      string
	KafkaBrokers   []string
	SalesTopic     string
	LogLevel       string
	LoginRate      float64
	LoginBurst     int
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present; real
// environment variables win over it.
func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseDSN:    getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/webshop?charset=utf8mb4&parseTime=True&loc=Local")),
		ResetDB:        os.Getenv("RESET_DB") == "true",
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "db")),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		SalesTopic:     getEnv("KAFKA_SALES_TOPIC", "book-sales"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LoginRate:      getEnvFloat("LOGIN_RATE_PER_SEC", 1),
		LoginBurst:     getEnvInt("LOGIN_BURST", 5),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
