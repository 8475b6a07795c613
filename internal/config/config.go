package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPageSize - размер страницы ленты постов
const DefaultPageSize = 10

type Config struct {
	HTTPAddr    string
	JWTSecret   string
	TokenTTL    time.Duration
	PageSize    int
	DatabaseURL string // для pgx-хранилища
	CORSOrigins []string
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

func GetEnvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// GetEnvInt - целое значение переменной; при ошибке разбора возвращается def
func GetEnvInt(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("invalid value %q for %s, using %d", value, key, def)
		return def
	}
	return n
}

// Load собирает конфигурацию из окружения (после LoadEnv)
func Load() Config {
	return Config{
		HTTPAddr:    GetEnvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    time.Duration(GetEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		PageSize:    GetEnvInt("PAGE_SIZE", DefaultPageSize),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CORSOrigins: splitList(GetEnvDefault("CORS_ORIGINS", "*")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
