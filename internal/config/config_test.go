package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SORTEO_API_URL", "SORTEO_MAX_IMAGE_BYTES", "SORTEO_ALLOWED_IMAGE_TYPES",
		"SORTEO_HTTP_TIMEOUT", "SORTEO_TOKEN_FILE", "SORTEO_TERMINAL_POLICY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.MaxImageBytes != 5<<20 {
		t.Errorf("MaxImageBytes = %d", cfg.MaxImageBytes)
	}
	if len(cfg.AllowedImageTypes) != 3 || cfg.AllowedImageTypes[0] != "image/jpeg" {
		t.Errorf("AllowedImageTypes = %v", cfg.AllowedImageTypes)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.TerminalPolicy != "warn" {
		t.Errorf("TerminalPolicy = %q", cfg.TerminalPolicy)
	}
	if cfg.TokenFile == "" {
		t.Error("TokenFile default must be resolved")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SORTEO_API_URL", "https://sorteo.example.com/api")
	t.Setenv("SORTEO_MAX_IMAGE_BYTES", "1048576")
	t.Setenv("SORTEO_ALLOWED_IMAGE_TYPES", "image/png, image/webp")
	t.Setenv("SORTEO_HTTP_TIMEOUT", "5s")
	t.Setenv("SORTEO_TOKEN_FILE", "/tmp/sorteo-token")
	t.Setenv("SORTEO_TERMINAL_POLICY", "reject")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://sorteo.example.com/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.MaxImageBytes != 1<<20 {
		t.Errorf("MaxImageBytes = %d", cfg.MaxImageBytes)
	}
	if len(cfg.AllowedImageTypes) != 2 || cfg.AllowedImageTypes[1] != "image/webp" {
		t.Errorf("AllowedImageTypes = %v", cfg.AllowedImageTypes)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.TokenFile != "/tmp/sorteo-token" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
	if cfg.TerminalPolicy != "reject" {
		t.Errorf("TerminalPolicy = %q", cfg.TerminalPolicy)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SORTEO_MAX_IMAGE_BYTES", "not-a-number")
	t.Setenv("SORTEO_HTTP_TIMEOUT", "soon")
	t.Setenv("SORTEO_TERMINAL_POLICY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxImageBytes != 5<<20 {
		t.Errorf("MaxImageBytes = %d", cfg.MaxImageBytes)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
}

func TestLoad_RejectsUnknownTerminalPolicy(t *testing.T) {
	t.Setenv("SORTEO_TERMINAL_POLICY", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown terminal policy")
	}
}
