package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "DATABASE_URL", "STORAGE_DIR", "LIBRARY_PATH",
		"IMAGE_GATEWAY_API_KEY", "IMAGE_GATEWAY_BASE_URL", "CHAT_MODEL",
		"PREFERRED_MODEL", "BATCH_WORKERS", "GATEWAY_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.StorageDir != "data/images" {
		t.Fatalf("StorageDir = %q", cfg.StorageDir)
	}
	if cfg.BatchWorkers != 4 {
		t.Fatalf("BatchWorkers = %d", cfg.BatchWorkers)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL should default empty, got %q", cfg.DatabaseURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("PREFERRED_MODEL", "gemini-image")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.BatchWorkers != 8 {
		t.Fatalf("BatchWorkers = %d", cfg.BatchWorkers)
	}
	if cfg.PreferredModel != "gemini-image" {
		t.Fatalf("PreferredModel = %q", cfg.PreferredModel)
	}
}
