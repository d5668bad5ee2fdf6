package app

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Env:                 "test",
		Port:                8080,
		ShutdownGracePeriod: time.Second,
		DatabaseFile:        ":memory:",
		RedisURL:            "redis://localhost:6379/0",
		RevocationPrefix:    "test:revoked",
		RevocationTimeout:   500 * time.Millisecond,
		JWTSecret:           "0123456789abcdef0123456789abcdef",
		JWTAlgorithm:        "HS256",
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     48 * time.Hour,
		ActionTokenMaxAge:   24 * time.Hour,
		ActionTokenSalt:     "email-configuration",
		BcryptCost:          4,
		Domain:              "localhost:8080",
		MailFrom:            "no-reply@localhost",
		MailWorkers:         1,
		MailQueueSize:       10,
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DOMAIN", "")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := LoadConfig()

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "bookly.db", cfg.DatabaseFile)
	require.Equal(t, "HS256", cfg.JWTAlgorithm)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.ActionTokenMaxAge)
	require.Equal(t, "email-configuration", cfg.ActionTokenSalt)
	require.Equal(t, 500*time.Millisecond, cfg.RevocationTimeout)
	require.Equal(t, "no-reply@localhost", cfg.MailFrom)
	require.Equal(t, httpx.StrictLimit, cfg.RateLimits.Strict)
	require.Equal(t, httpx.PublicLimit, cfg.RateLimits.Public)
	require.Empty(t, cfg.TrustedProxies)

	// Dev runs without a secret get an ephemeral one
	require.True(t, cfg.SecretGenerated)
	require.NotEmpty(t, cfg.JWTSecret)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "a-very-long-production-secret-value-0001")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REFRESH_TOKEN_TTL", "90") // bare integers are minutes
	t.Setenv("ALLOWED_HOSTS", "bookly.example.com, localhost ,")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")
	t.Setenv("RATELIMIT_STRICT_WINDOW", "10s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg := LoadConfig()

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "HS512", cfg.JWTAlgorithm)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 90*time.Minute, cfg.RefreshTokenTTL)
	require.Equal(t, []string{"bookly.example.com", "localhost"}, cfg.AllowedHosts)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: 10 * time.Second, Burst: httpx.StrictLimit.Burst}, cfg.RateLimits.Strict)
	require.Equal(t, httpx.ModerateLimit, cfg.RateLimits.Moderate)
	require.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
	require.False(t, cfg.SecretGenerated)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "at least 32 bytes"},
		{"asymmetric algorithm", func(c *Config) { c.JWTAlgorithm = "RS256" }, "JWT_ALGORITHM"},
		{"refresh shorter than access", func(c *Config) { c.RefreshTokenTTL = time.Minute }, "REFRESH_TOKEN_TTL"},
		{"bcrypt cost", func(c *Config) { c.BcryptCost = 99 }, "BCRYPT_COST"},
		{"port", func(c *Config) { c.Port = 0 }, "PORT"},
		{"mail workers", func(c *Config) { c.MailWorkers = 0 }, "MAIL_WORKERS"},
		{"negative rate limit", func(c *Config) { c.RateLimits.Lenient.Burst = -1 }, "RATELIMIT_LENIENT"},
		{"trusted proxy", func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/33"} }, "TRUSTED_PROXIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("short secret allowed in dev", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "dev"
		cfg.JWTSecret = "short"
		require.NoError(t, cfg.Validate())
	})
}
