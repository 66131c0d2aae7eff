package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

var managedKeys = []string{
	"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
	"SHUTDOWN_TIMEOUT", "MAX_HEADER_BYTES", "GIN_MODE", "APP_ENV", "NODE_ENV",
	"LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED", "SLOW_REQUEST_THRESHOLD",
	"API_VERSION", "OWNER_NAME", "TZ_NAME", "DATABASE_URL",
	"EMAIL_HOST", "EMAIL_PORT", "EMAIL_USER", "EMAIL_PASS", "EMAIL_FROM", "EMAIL_TO",
	"EMAIL_ENCRYPTION", "EMAIL_RATE_PER_SEC",
	"RATE_LIMIT_STORE", "REDIS_URL", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX_REQUESTS",
	"READONLY_RATE_LIMIT_MAX", "CONTACT_RATE_LIMIT_WINDOW", "CONTACT_RATE_LIMIT_MAX",
	"STRICT_RATE_LIMIT_WINDOW", "STRICT_RATE_LIMIT_MAX",
	"CORS_ORIGIN", "HTTPS_ONLY", "HSTS_MAX_AGE", "IDEMPOTENCY_TTL",
	"ERROR_TRACKING_ENABLED", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
}

// cleanEnv blanks every key Load reads; empty values count as unset.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
	}
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load defaults ---

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "3000" || cfg.Env != EnvDevelopment || !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatalf("server/env unexpected: %+v", cfg)
	}
	if cfg.DatabaseURL != "portfolio.db" || cfg.Version != "1.0.0" {
		t.Fatalf("app unexpected: %+v", cfg)
	}
	want := RateLimitConfig{
		Store:         "memory",
		Window:        15 * time.Minute,
		MaxRequests:   100,
		ReadOnlyMax:   200,
		ContactWindow: time.Hour,
		ContactMax:    5,
		StrictWindow:  time.Hour,
		StrictMax:     10,
	}
	if cfg.RateLimit != want {
		t.Fatalf("rate limit = %+v, want %+v", cfg.RateLimit, want)
	}
	if cfg.Email.Encryption != "starttls" || cfg.Email.Port != 587 {
		t.Fatalf("email unexpected: %+v", cfg.Email)
	}
	if cfg.CORS.AllowedOrigins != nil {
		t.Fatalf("cors origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Location() != time.Local {
		t.Fatalf("location should default to time.Local")
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_OverridesAndNormalization(t *testing.T) {
	cleanEnv(t)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("GIN_MODE", "weird") // -> release
	t.Setenv("NODE_ENV", "Production")
	t.Setenv("LOG_LEVEL", "warning") // -> warn
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("SLOW_REQUEST_THRESHOLD", "250ms")
	t.Setenv("OWNER_NAME", "Jane Doe")
	t.Setenv("TZ_NAME", "Europe/Lisbon")
	t.Setenv("DATABASE_URL", "mysql://u:p@tcp(db:3306)/portfolio")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_USER", "jane@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("EMAIL_ENCRYPTION", "SSL")
	t.Setenv("EMAIL_PORT", "465")
	t.Setenv("RATE_LIMIT_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RATE_LIMIT_WINDOW", "900000") // milliseconds
	t.Setenv("CONTACT_RATE_LIMIT_MAX", "x") // -> default 5
	t.Setenv("CORS_ORIGIN", " https://a.com/ , , http://localhost:5173 ")
	t.Setenv("HTTPS_ONLY", "TRUE")
	t.Setenv("IDEMPOTENCY_TTL", "48h")
	t.Setenv("ERROR_TRACKING_ENABLED", "1")
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second || cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if !cfg.IsProduction() {
		t.Fatalf("env = %q", cfg.Env)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.SlowRequestThreshold != 250*time.Millisecond {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.Location().String() != "Europe/Lisbon" || cfg.OwnerName != "Jane Doe" {
		t.Fatalf("app unexpected: %+v", cfg)
	}
	if cfg.Email.Encryption != "ssl" || cfg.Email.Port != 465 {
		t.Fatalf("email unexpected: %+v", cfg.Email)
	}
	if cfg.Email.From != "jane@example.com" || cfg.Email.To != "jane@example.com" {
		t.Fatalf("from/to should default to EMAIL_USER: %+v", cfg.Email)
	}
	if cfg.RateLimit.Store != "redis" || cfg.RateLimit.Window != 15*time.Minute || cfg.RateLimit.ContactMax != 5 {
		t.Fatalf("rate limit unexpected: %+v", cfg.RateLimit)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://localhost:5173"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.HTTPSOnly || cfg.IdempotencyTTL != 48*time.Hour || !cfg.ErrorTrackingEnabled {
		t.Fatalf("security/idempotency unexpected: %+v", cfg)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_AppEnvWinsOverNodeEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("NODE_ENV", "production")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Env != EnvTest {
		t.Fatalf("env = %q", cfg.Env)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid APP_ENV", map[string]string{"APP_ENV": "staging"}, "APP_ENV"},
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"negative timeout", map[string]string{"WRITE_TIMEOUT": "-1s"}, "timeouts"},
		{"bad header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"unknown zone", map[string]string{"TZ_NAME": "Mars/Olympus"}, "TZ_NAME"},
		{"bad encryption", map[string]string{"EMAIL_ENCRYPTION": "tls13"}, "EMAIL_ENCRYPTION"},
		{"bad email port", map[string]string{"EMAIL_PORT": "70000"}, "EMAIL_PORT"},
		{"production without credentials", map[string]string{"APP_ENV": "production"}, "EMAIL_USER, EMAIL_PASS"},
		{"production without password", map[string]string{"APP_ENV": "production", "EMAIL_USER": "a@b.co"}, "EMAIL_PASS"},
		{"bad store", map[string]string{"RATE_LIMIT_STORE": "memcached"}, "RATE_LIMIT_STORE"},
		{"redis without url", map[string]string{"RATE_LIMIT_STORE": "redis"}, "REDIS_URL"},
		{"zero window", map[string]string{"STRICT_RATE_LIMIT_WINDOW": "0s"}, "windows"},
		{"zero max", map[string]string{"RATE_LIMIT_MAX_REQUESTS": "0"}, "maximums"},
		{"production without origins", map[string]string{"APP_ENV": "production", "EMAIL_USER": "a@b.co", "EMAIL_PASS": "x"}, "CORS_ORIGIN is required"},
		{"origin without scheme", map[string]string{"CORS_ORIGIN": "example.com"}, "CORS_ORIGIN"},
		{"negative hsts", map[string]string{"HSTS_MAX_AGE": "-1h"}, "HSTS_MAX_AGE"},
		{"negative slow threshold", map[string]string{"SLOW_REQUEST_THRESHOLD": "-1s"}, "SLOW_REQUEST_THRESHOLD"},
		{"zero idempotency ttl", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

// --- helpers ---

func TestGetdur_AcceptsMilliseconds(t *testing.T) {
	t.Setenv("X_DUR", "1500")
	if got := getdur("X_DUR", 0); got != 1500*time.Millisecond {
		t.Fatalf("getdur = %v", got)
	}
	t.Setenv("X_DUR", "garbage")
	if got := getdur("X_DUR", time.Second); got != time.Second {
		t.Fatalf("getdur fallback = %v", got)
	}
}

func TestSplitCSV(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Fatalf("splitCSV(\"\") = %v", got)
	}
	if got := splitCSV(" a, ,b ,"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("splitCSV = %v", got)
	}
}

func TestGetbool(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	if getbool("X_BOOL", true) {
		t.Fatal("off should be false")
	}
	t.Setenv("X_BOOL", "maybe")
	if !getbool("X_BOOL", true) {
		t.Fatal("unknown value should fall back to default")
	}
}
