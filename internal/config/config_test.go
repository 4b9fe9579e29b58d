package config

import (
	"testing"
	"time"
)

// setRequired populates every variable Load() treats as mandatory.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "todoiti")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "todoiti")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("WEBAPP_URL", "http://web.test")
}

func TestLoadReadsEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("INVITE_TTL_HOURS", "24")
	t.Setenv("JWT_REFRESH_COOKIE_NAME", "custom_refresh")

	cfg := Load()
	if cfg.Env != "test" || cfg.Port != "8080" {
		t.Errorf("env/port = %q/%q", cfg.Env, cfg.Port)
	}
	if cfg.AccessTTLMin != 15 || cfg.RefreshTTLDays != 30 || cfg.BcryptCost != 10 {
		t.Errorf("ttl/cost = %d/%d/%d", cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost)
	}
	if cfg.InviteTTLHours != 24 {
		t.Errorf("InviteTTLHours = %d, want 24", cfg.InviteTTLHours)
	}
	if cfg.RefreshCookieName != "custom_refresh" {
		t.Errorf("RefreshCookieName = %q", cfg.RefreshCookieName)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("INVITE_TTL_HOURS", "")
	t.Setenv("JWT_REFRESH_COOKIE_NAME", "")

	cfg := Load()
	if cfg.InviteTTLHours != 72 {
		t.Errorf("InviteTTLHours default = %d, want 72", cfg.InviteTTLHours)
	}
	if cfg.RefreshCookieName != "todoiti_refresh" {
		t.Errorf("RefreshCookieName default = %q", cfg.RefreshCookieName)
	}
}

func TestAtoiDefault(t *testing.T) {
	t.Setenv("SOME_OPTIONAL_INT", "not-a-number")
	if got := atoiDefault("SOME_OPTIONAL_INT", 7); got != 7 {
		t.Errorf("malformed value: got %d, want fallback 7", got)
	}
	t.Setenv("SOME_OPTIONAL_INT", "42")
	if got := atoiDefault("SOME_OPTIONAL_INT", 7); got != 42 {
		t.Errorf("set value: got %d, want 42", got)
	}
}

func TestLoadRateLimitConfigFloors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity < 1 || cfg.RefillTokens < 1 {
		t.Errorf("capacity/refill not floored: %d/%d", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.RefillInterval <= 0 {
		t.Errorf("RefillInterval not floored: %v", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL %v below the 5x interval floor", cfg.TTL)
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_METHODS", "get, post")
	t.Setenv("CACHE_TTL", "bogus")

	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Error("cache should default to enabled")
	}
	if !cfg.Methods["GET"] || !cfg.Methods["POST"] {
		t.Errorf("methods not normalized: %v", cfg.Methods)
	}
	if cfg.TTL != time.Second {
		t.Errorf("malformed TTL should fall back to 1s, got %v", cfg.TTL)
	}
}
