package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server endpoints
	ServerURL    string
	WebsocketURL string

	// Local state
	DataDir string

	// Session
	QueueSize int

	// Observability
	MetricsAddr string // empty disables the metrics listener
	LogLevel    string
	Environment string
}

func Load() Config {
	// A .env file is a local-dev convenience; absence is fine.
	_ = godotenv.Load()

	return Config{
		ServerURL:    getenv("SERVER_URL", "http://localhost:3000"),
		WebsocketURL: getenv("WEBSOCKET_URL", "ws://localhost:3000/ws"),
		DataDir:      getenv("DATA_DIR", "."),
		QueueSize:    getint("SEND_QUEUE_SIZE", 32),
		MetricsAddr:  getenv("METRICS_ADDR", ""),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		Environment:  getenv("ENVIRONMENT", "dev"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}
