package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthModeGuest  = "guest"
	AuthModeRemote = "remote"
	AuthModeLocal  = "local"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	AuthMode             string
	AuthURL              string
	AuthAPIKey           string
	AuthEmailRedirectURL string

	ProductAPIURL     string
	ProductAPITimeout time.Duration

	DatabaseURL string
	JWTSecret   []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CORSOrigins []string
	CSRFEnabled bool
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "crm-dashboard"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		AuthMode:             strings.ToLower(EnvDefault("AUTH_MODE", AuthModeGuest)),
		AuthURL:              os.Getenv("AUTH_URL"),
		AuthAPIKey:           os.Getenv("AUTH_API_KEY"),
		AuthEmailRedirectURL: EnvDefault("AUTH_EMAIL_REDIRECT_URL", "http://localhost:3000/dashboard"),

		ProductAPIURL:     EnvDefault("PRODUCT_API_URL", "https://dummyjson.com"),
		ProductAPITimeout: time.Duration(EnvIntDefault("PRODUCT_API_TIMEOUT_MS", 5000)) * time.Millisecond,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "http://localhost:3000")),
		CSRFEnabled: strings.EqualFold(os.Getenv("CSRF_ENABLED"), "true"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
