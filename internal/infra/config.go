package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	StorageDir       string
	LibraryPath      string
	CollectionsPath  string
	GatewayAPIKey    string
	GatewayBaseURL   string
	ChatModel        string
	PreferredModel   string
	BatchWorkers     int
	RequestTimeout   time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. DATABASE_URL is optional: without it the asset
// library lives in a JSON file next to the image storage. Without
// IMAGE_GATEWAY_API_KEY the service runs on the synthetic adapter only.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StorageDir:       getEnv("STORAGE_DIR", "data/images"),
		LibraryPath:      getEnv("LIBRARY_PATH", "data/library.json"),
		CollectionsPath:  getEnv("COLLECTIONS_PATH", "data/collections.json"),
		GatewayAPIKey:    os.Getenv("IMAGE_GATEWAY_API_KEY"),
		GatewayBaseURL:   getEnv("IMAGE_GATEWAY_BASE_URL", "https://api.openai.com"),
		ChatModel:        getEnv("CHAT_MODEL", "gpt-5-mini"),
		PreferredModel:   os.Getenv("PREFERRED_MODEL"),
		BatchWorkers:     getEnvInt("BATCH_WORKERS", 4),
		RequestTimeout:   time.Second * time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 120)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
