package bootstrap

import (
	"os"
	"strconv"
)

type Config struct {
	ServerAddr string

	DatabaseDSN string

	// Frame pipeline configuration. The compression level is injected
	// into the codec rather than read from ambient state.
	CompressionLevel int
	OriginalWidth    int
	ResizedWidth     int

	IngestBatchSize int

	LogLevel string
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		CompressionLevel: getEnvInt("COMPRESSION_LEVEL", 9),
		OriginalWidth:    getEnvInt("IMAGE_ORIGINAL_WIDTH", 200),
		ResizedWidth:     getEnvInt("IMAGE_RESIZED_WIDTH", 150),

		IngestBatchSize: getEnvInt("INGEST_BATCH_SIZE", 100),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
