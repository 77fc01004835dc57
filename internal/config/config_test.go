package config

import (
	"strings"
	"testing"
	"time"
)

func TestEnvIntValid(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	v, err := envInt("TEST_INT", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestEnvIntFallback(t *testing.T) {
	// TEST_INT_MISSING is not set.
	v, err := envInt("TEST_INT_MISSING", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 99 {
		t.Fatalf("expected fallback 99, got %d", v)
	}
}

func TestEnvHelpersReportKeyAndValue(t *testing.T) {
	t.Setenv("TEST_INT_BAD", "abc")
	t.Setenv("TEST_BOOL_BAD", "maybe")
	t.Setenv("TEST_DUR_BAD", "five-seconds")
	t.Setenv("TEST_FLOAT_BAD", "ten")

	_, intErr := envInt("TEST_INT_BAD", 0)
	_, boolErr := envBool("TEST_BOOL_BAD", false)
	_, durErr := envDuration("TEST_DUR_BAD", 0)
	_, floatErr := envFloat("TEST_FLOAT_BAD", 0)

	for got, want := range map[error]string{
		intErr:   `TEST_INT_BAD="abc" is not a valid integer`,
		boolErr:  `TEST_BOOL_BAD="maybe" is not a valid boolean`,
		durErr:   `TEST_DUR_BAD="five-seconds" is not a valid duration`,
		floatErr: `TEST_FLOAT_BAD="ten" is not a valid number`,
	} {
		if got == nil {
			t.Fatalf("expected error %q, got nil", want)
		}
		if got.Error() != want {
			t.Fatalf("unexpected error message: %s", got)
		}
	}
}

func TestEnvDurationAndFloat(t *testing.T) {
	t.Setenv("TEST_DUR", "250ms")
	t.Setenv("TEST_FLOAT", "2.5")
	d, err := envDuration("TEST_DUR", 0)
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s (%v)", d, err)
	}
	f, err := envFloat("TEST_FLOAT", 0)
	if err != nil || f != 2.5 {
		t.Fatalf("expected 2.5, got %v (%v)", f, err)
	}
}

func TestLoadSucceedsWithDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected Load() to succeed with defaults, got: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.StorageDriver != DriverSQLite || cfg.SQLitePath != "studio.db" {
		t.Fatalf("expected sqlite at studio.db, got %s at %s", cfg.StorageDriver, cfg.SQLitePath)
	}
	if cfg.GenerationDelay != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s generation delay, got %s", cfg.GenerationDelay)
	}
	if !cfg.RateLimitEnabled || cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 30 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg)
	}
	if cfg.MaxRequestBodyBytes != 1<<20 {
		t.Fatalf("expected 1 MiB body limit, got %d", cfg.MaxRequestBodyBytes)
	}
}

func TestLoadFailsOnMultipleInvalid(t *testing.T) {
	t.Setenv("STUDIO_PORT", "abc")
	t.Setenv("STUDIO_SESSION_TTL", "forever")
	_, err := Load()
	if err == nil {
		t.Fatal("expected Load() to fail with multiple invalid vars")
	}
	got := err.Error()
	for _, want := range []string{"STUDIO_PORT", "abc", "STUDIO_SESSION_TTL"} {
		if !strings.Contains(got, want) {
			t.Fatalf("error should mention %s, got: %s", want, got)
		}
	}
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	t.Setenv("STUDIO_STORAGE_DRIVER", "Postgres")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL is required") {
		t.Fatalf("expected missing DATABASE_URL error, got: %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://studio@localhost/studio")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != DriverPostgres {
		t.Fatalf("expected driver to be normalized to postgres, got %s", cfg.StorageDriver)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port: 8080, StorageDriver: DriverSQLite, SQLitePath: ":memory:",
			MaxRequestBodyBytes: 1024, SessionTTL: time.Hour, ToolsetCacheSize: 8,
			RateLimitEnabled: true, RateLimitRPS: 1, RateLimitBurst: 1, ShareTokenTTL: time.Hour,
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}

	tests := map[string]func(c *Config){
		"STUDIO_PORT":               func(c *Config) { c.Port = 70000 },
		"STUDIO_STORAGE_DRIVER":     func(c *Config) { c.StorageDriver = "mysql" },
		"STUDIO_TOOLSET_CACHE_SIZE": func(c *Config) { c.ToolsetCacheSize = 0 },
		"STUDIO_RATE_LIMIT_RPS":     func(c *Config) { c.RateLimitRPS = 0 },
		"STUDIO_JWT_PRIVATE_KEY":    func(c *Config) { c.JWTPublicKeyPath = "pub.pem" },
		"STUDIO_GENERATION_DELAY":   func(c *Config) { c.GenerationDelay = -time.Second },
	}
	for want, mutate := range tests {
		c := valid()
		mutate(&c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error mentioning %s, got: %v", want, err)
		}
	}

	c := valid()
	c.RateLimitEnabled = false
	c.RateLimitRPS = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("rate limit settings are ignored when disabled, got: %v", err)
	}
}
