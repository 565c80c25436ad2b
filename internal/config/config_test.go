package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GATEWAY_BACKEND", "")
	t.Setenv("SERVICE_FEE_CENTS", "")
	t.Setenv("INVENTORY_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GatewayBackend != BackendHTTP {
		t.Errorf("backend = %q, want http", cfg.GatewayBackend)
	}
	if cfg.InventoryBaseURL != "http://localhost:7205" {
		t.Errorf("base url = %q", cfg.InventoryBaseURL)
	}
	if cfg.ServiceFeeCents != 500 {
		t.Errorf("fee = %d, want 500", cfg.ServiceFeeCents)
	}
	if cfg.HandoffTTL != 15*time.Minute {
		t.Errorf("handoff ttl = %v", cfg.HandoffTTL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"unknown backend", map[string]string{"JWT_SECRET": "x", "GATEWAY_BACKEND": "grpc"}},
		{"mysql without db", map[string]string{"JWT_SECRET": "x", "GATEWAY_BACKEND": "mysql", "DB_USER": "", "DB_NAME": ""}},
		{"negative fee", map[string]string{"JWT_SECRET": "x", "GATEWAY_BACKEND": "http", "SERVICE_FEE_CENTS": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadTrimsBaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("GATEWAY_BACKEND", "")
	t.Setenv("INVENTORY_BASE_URL", "http://inventory:7205/")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InventoryBaseURL != "http://inventory:7205" {
		t.Errorf("base url = %q", cfg.InventoryBaseURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TICKETFELLA_TEST_VAR=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TICKETFELLA_TEST_VAR", "")
	os.Unsetenv("TICKETFELLA_TEST_VAR")
	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("TICKETFELLA_TEST_VAR"); got != "from-file" {
		t.Errorf("var = %q, want from-file", got)
	}
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("capacity = %d, want 1", cfg.Capacity)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("ttl = %v, want 10s", cfg.TTL)
	}
}

func TestEnvBool(t *testing.T) {
	for v, want := range map[string]bool{"yes": true, "off": false, "maybe": true, "": true} {
		t.Setenv("TICKETFELLA_BOOL", v)
		if got := envBool("TICKETFELLA_BOOL", true); got != want {
			t.Errorf("envBool(%q) = %v, want %v", v, got, want)
		}
	}
}
