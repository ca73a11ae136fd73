// config.go
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress      string
	MongoURI        string
	MongoDBName     string
	AuthURL         string
	RabbitURL       string
	PublicBaseURL   string
	FunctionsURL    string
	TelegramToken   string
	LogLevel        string
	NotifyQueue     string
	NotifyAttempts  int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultNotifyQueue     = "admin_notifications"
	defaultNotifyAttempts  = 5
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load lee el .env (si existe), las variables de entorno y los flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", ""),
		MongoURI:        getString(lookup, "MONGO_URI", "mongodb://host.docker.internal:27017/?replicaSet=rs0"),
		MongoDBName:     getString(lookup, "MONGO_DB_NAME", "marketplace"),
		AuthURL:         getString(lookup, "AUTH_URL", "http://host.docker.internal:3000"),
		RabbitURL:       getString(lookup, "RABBIT_URL", "amqp://host.docker.internal"),
		PublicBaseURL:   getString(lookup, "PUBLIC_BASE_URL", "http://localhost:8080"),
		FunctionsURL:    getString(lookup, "FUNCTIONS_URL", ""),
		TelegramToken:   getString(lookup, "TELEGRAM_TOKEN", ""),
		LogLevel:        getString(lookup, "LOG_LEVEL", "info"),
		NotifyQueue:     getString(lookup, "NOTIFY_QUEUE", defaultNotifyQueue),
		NotifyAttempts:  getInt(lookup, "NOTIFY_MAX_ATTEMPTS", defaultNotifyAttempts),
		RequestTimeout:  getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	// PORT se mantiene por compatibilidad con los despliegues en docker
	if cfg.RunAddress == "" {
		if port := getString(lookup, "PORT", ""); port != "" {
			cfg.RunAddress = ":" + port
		} else {
			cfg.RunAddress = defaultRunAddress
		}
	}

	fs := flag.NewFlagSet("marketplace-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP listen address")
	fs.StringVar(&cfg.MongoURI, "mongo", cfg.MongoURI, "MongoDB connection URI")
	fs.StringVar(&cfg.RabbitURL, "rabbit", cfg.RabbitURL, "RabbitMQ URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.NotifyAttempts <= 0 {
		cfg.NotifyAttempts = defaultNotifyAttempts
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongo URI must be provided")
	}
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("rabbit URL must be provided")
	}
	return cfg, nil
}

func getString(lookup envLookup, key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(lookup envLookup, key string, fallback int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(lookup envLookup, key string, fallback time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
