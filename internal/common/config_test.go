package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Address != "ws://localhost:8000/rpc" {
		t.Errorf("unexpected default storage address: %s", cfg.Storage.Address)
	}
	if cfg.Market.GetQuoteTTL().Minutes() != 5 {
		t.Errorf("expected 5m quote TTL, got %v", cfg.Market.GetQuoteTTL())
	}
	if cfg.IsProduction() {
		t.Error("default config should not be production")
	}
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "staging"

[server]
port = 9090

[storage]
address = "ws://db.internal:8000/rpc"
namespace = "folio_staging"

[auth]
jwt_secret = "file-secret"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FOLIO_PORT", "7070")
	t.Setenv("FOLIO_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment staging, got %s", cfg.Environment)
	}
	// Env beats file
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("expected env jwt secret, got %s", cfg.Auth.JWTSecret)
	}
	// File beats defaults
	if cfg.Storage.Namespace != "folio_staging" {
		t.Errorf("expected namespace folio_staging, got %s", cfg.Storage.Namespace)
	}
	// Defaults survive for untouched sections
	if cfg.Cache.Path != "data/cache" {
		t.Errorf("expected default cache path, got %s", cfg.Cache.Path)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("does/not/exist.toml")
	if err != nil {
		t.Fatalf("LoadConfig with missing file should not error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestGetTokenExpiry_Invalid(t *testing.T) {
	c := AuthConfig{TokenExpiry: "bogus"}
	if c.GetTokenExpiry().Hours() != 24 {
		t.Errorf("expected 24h fallback, got %v", c.GetTokenExpiry())
	}
}
