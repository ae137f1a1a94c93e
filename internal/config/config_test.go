package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("SUPERADMIN_USER_IDS")
	os.Unsetenv("GENERATE_RATE_LIMIT")

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("Expected default port 3001, got %s", cfg.Port)
	}
	if cfg.GenerateRateLimit != 30 {
		t.Errorf("Expected default rate limit 30, got %d", cfg.GenerateRateLimit)
	}
	if len(cfg.SuperadminUserIDs) != 0 {
		t.Errorf("Expected no superadmins by default, got %v", cfg.SuperadminUserIDs)
	}
}

func TestLoad_SuperadminParsing(t *testing.T) {
	os.Setenv("SUPERADMIN_USER_IDS", "alpha, beta ,gamma")
	defer os.Unsetenv("SUPERADMIN_USER_IDS")

	cfg := Load()

	if len(cfg.SuperadminUserIDs) != 3 {
		t.Fatalf("Expected 3 superadmins, got %v", cfg.SuperadminUserIDs)
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if cfg.SuperadminUserIDs[i] != want {
			t.Errorf("Expected trimmed id %q, got %q", want, cfg.SuperadminUserIDs[i])
		}
	}
}

func TestLoadProviders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")

	content := `{
		"providers": [
			{"name": "facade", "base_url": "http://gw.local/v1", "api_key": "k1", "enabled": true},
			{"name": "openai", "base_url": "https://api.openai.com/v1", "api_key": "k2", "enabled": false}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write providers file: %v", err)
	}

	providers, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("LoadProviders failed: %v", err)
	}

	facade := providers.Find("facade")
	if facade == nil {
		t.Fatal("Expected enabled facade entry")
	}
	if facade.BaseURL != "http://gw.local/v1" {
		t.Errorf("Unexpected base URL: %s", facade.BaseURL)
	}

	// Disabled entries are invisible to Find
	if providers.Find("openai") != nil {
		t.Error("Disabled provider must not be returned")
	}
	if providers.Find("missing") != nil {
		t.Error("Unknown provider must not be returned")
	}
}

func TestLoadProviders_MissingFile(t *testing.T) {
	if _, err := LoadProviders("/nonexistent/providers.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}
