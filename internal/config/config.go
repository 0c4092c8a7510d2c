package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	SessionSecret []byte
	SecureCookies bool
	CSRFEnabled   bool

	// DatabaseURL selects postgres for the order ledger; empty keeps it in memory.
	DatabaseURL string
	// DBDriver is "pgx" or "postgres" (lib/pq).
	DBDriver string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	GeminiAPIKey string
	GeminiModel  string

	ChatRatePerSec float64

	SeedFile string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SecureCookies: EnvBoolDefault("COOKIE_SECURE", false),
		CSRFEnabled:   EnvBoolDefault("CSRF_ENABLED", true),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBDriver:    EnvDefault("DB_DRIVER", "pgx"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "books"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  EnvDefault("GEMINI_MODEL", "gemini-2.5-flash"),

		ChatRatePerSec: EnvFloatDefault("CHAT_RATE_PER_SEC", 1),

		SeedFile: os.Getenv("SEED_FILE"),
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

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Validate rejects settings that are unsafe together. Secure cookies mark a
// production deployment, which must not run on a generated session secret.
func (c Config) Validate() error {
	if c.SecureCookies {
		if err := NonEmptyBytes(c.SessionSecret, "SESSION_SECRET"); err != nil {
			return fmt.Errorf("COOKIE_SECURE=true: %w", err)
		}
	}
	return nil
}

func NonEmptyBytes(value []byte, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}
