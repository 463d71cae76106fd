// Package config centralizes how sorteo reads environment variables and
// exposes them as strongly typed Go values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the client. One base URL is
// used for every server interaction, including comprobante image
// references, so the address that stored an upload is always the address
// used to retrieve it.
type Config struct {
	APIBaseURL        string
	MaxImageBytes     int64
	AllowedImageTypes []string
	HTTPTimeout       time.Duration
	TokenFile         string
	// TerminalPolicy decides what SetStatus does when asked to transition a
	// ticket that is already aprobado or rechazado: "reject", "warn" or
	// "allow".
	TerminalPolicy string
}

const (
	defaultAPIBaseURL    = "http://localhost:5000/api"
	defaultMaxImageBytes = 5 << 20 // 5 MiB, the server-side upload cap
	defaultImageTypes    = "image/jpeg,image/png,image/webp"
	defaultHTTPTimeout   = 30 * time.Second
	defaultPolicy        = "warn"
)

// Load reads configuration from the environment, after loading a local
// .env file when one exists. Variables already present in the environment
// win over .env values.
func Load() (*Config, error) {
	// godotenv.Load never overwrites existing variables; a missing .env is
	// not an error.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:        readEnv("SORTEO_API_URL", defaultAPIBaseURL),
		MaxImageBytes:     parseInt64("SORTEO_MAX_IMAGE_BYTES", defaultMaxImageBytes),
		AllowedImageTypes: parseList("SORTEO_ALLOWED_IMAGE_TYPES", defaultImageTypes),
		HTTPTimeout:       parseDuration("SORTEO_HTTP_TIMEOUT", defaultHTTPTimeout),
		TokenFile:         readEnv("SORTEO_TOKEN_FILE", ""),
		TerminalPolicy:    readEnv("SORTEO_TERMINAL_POLICY", defaultPolicy),
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	switch cfg.TerminalPolicy {
	case "reject", "warn", "allow":
	default:
		return nil, fmt.Errorf("config: SORTEO_TERMINAL_POLICY must be reject, warn or allow (got %q)", cfg.TerminalPolicy)
	}
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolving token location: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "sorteo", "token")
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	// LookupEnv returns (value, true) when the variable is present, mirroring
	// Go's pattern of providing extra information via multiple return values.
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseList(key, def string) []string {
	val := readEnv(key, def)
	out := strings.Split(val, ",")
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func parseInt64(key string, def int64) int64 {
	// strconv.ParseInt converts strings to integers; Go treats errors as
	// values so we simply ignore invalid input and return the default.
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "5m" or "30s".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
