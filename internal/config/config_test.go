package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "docugrade_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("expected JWT secret to be read from env")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("JWT_ACCESS_TOKEN_TTL")
	os.Unsetenv("STORAGE_ROOT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.JWT.AccessTokenTTL != 720*time.Minute {
		t.Fatalf("expected 720m default token TTL, got %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.Storage.Root != "data/users" {
		t.Fatalf("unexpected default storage root: %s", cfg.Storage.Root)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("unexpected default port: %s", cfg.Server.Port)
	}
}
