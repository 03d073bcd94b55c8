package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinBcryptCost is the floor for the password hashing work factor.
const MinBcryptCost = 10

// Config holds the application configuration. It is resolved once at
// startup and never mutated afterwards.
type Config struct {
	ServerPort   int
	DatabasePath string
	BootstrapSQL string // Path to the schema rebuild script

	// Token signing material. When the PEM env vars are set they win over
	// the file paths (Heroku-style config vars vs. local key files).
	PrivateKeyEnv  string
	PublicKeyEnv   string
	PrivateKeyFile string
	PublicKeyFile  string

	TokenIssuer   string
	TokenAudience string
	TokenTTL      time.Duration

	BcryptCost int

	// Bootstrap account created when the database is built from scratch.
	AdminUsername string
	AdminPassword string

	AllowedOrigins []string
	SummarySpec    string // Cron expression for the nightly completion summary
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, err
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, err
	}
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./data/kidchores.db"),
		BootstrapSQL:   getEnv("BOOTSTRAP_SQL", "./data/rebuild.sql"),
		PrivateKeyEnv:  "JWT_PRIVATE_KEY",
		PublicKeyEnv:   "JWT_PUBLIC_KEY",
		PrivateKeyFile: getEnv("JWT_PRIVATE_KEY_FILE", "./data/jwt_rsa.key"),
		PublicKeyFile:  getEnv("JWT_PUBLIC_KEY_FILE", "./data/jwt_rsa.pub"),
		TokenIssuer:    getEnv("JWT_ISSUER", "Kid Chore Tool"),
		TokenAudience:  getEnv("JWT_AUDIENCE", "Kid Chore Tool Users"),
		TokenTTL:       ttl,
		BcryptCost:     cost,
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "changeme"),
		AllowedOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:9000"), ","),
		SummarySpec:    getEnv("SUMMARY_CRON", "0 21 * * *"),
	}, nil
}

// KeysFromEnv reports whether signing material is delivered through
// environment variables rather than key files.
func (c *Config) KeysFromEnv() bool {
	return os.Getenv(c.PrivateKeyEnv) != "" && os.Getenv(c.PublicKeyEnv) != ""
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
