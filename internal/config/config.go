package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

type Config struct {
	HTTPPort string

	StoreBackend string
	LedgerFile   string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	KafkaBrokers []string

	AdminAddress  string
	AdminUsername string
	AdminPassword string

	// Hex-encoded secp256k1 key the service signs credentials with. When
	// empty an ephemeral key is generated at startup.
	IssuerKeyHex string

	// LedgerID and ContractRef identify this ledger instance inside issued
	// credentials; VerifyEndpoint is printed on them for offline holders.
	LedgerID       string
	ContractRef    string
	VerifyEndpoint string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal("Error getting working directory:", err)
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			log.Printf("Loaded environment variables from %s", examplePath)
			return
		}
	}

	log.Println("No .env file found, relying on process environment")
}

// Load reads the configuration from .env files and the process environment.
func Load() *Config {
	loadEnv()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "9000"),

		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		LedgerFile:   getEnv("LEDGER_FILE", "data/ledger.json"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     port,
		DBUser:     getEnv("POSTGRES_USER", "postgres"),
		DBPassword: getEnv("POSTGRES_PASSWORD", ""),
		DBName:     getEnv("POSTGRES_DB", "coldtrace"),

		KafkaBrokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},

		AdminAddress:  os.Getenv("ADMIN_ADDRESS"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),

		IssuerKeyHex: os.Getenv("ISSUER_PRIVATE_KEY"),

		LedgerID:       getEnv("LEDGER_ID", "coldtrace-dev"),
		ContractRef:    os.Getenv("CONTRACT_REF"),
		VerifyEndpoint: getEnv("VERIFY_ENDPOINT", "http://localhost:9000/verify"),

		OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getInt("OUTBOX_BATCH_SIZE", 10),
		OutboxMaxAttempts:  getInt("OUTBOX_MAX_ATTEMPTS", 5),
	}
}

// DSN assembles the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
