package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	httpapi "github.com/aussiebroadwan/bookly/internal/bookly/http"
	"github.com/aussiebroadwan/bookly/pkg/cryptox"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"golang.org/x/crypto/bcrypt"
)

// minSecretBytes is the shortest JWT_SECRET accepted outside dev.
const minSecretBytes = 32

type Config struct {
	Env                 string        // Environment (dev, test, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseFile string // Path to SQLite database file (default: bookly.db)

	RedisURL          string        // Revocation store (default: redis://localhost:6379/0)
	RevocationPrefix  string        // Key prefix for revocation entries (default: bookly:revoked)
	RevocationTimeout time.Duration // Bound on each revocation lookup (default: 500ms)

	JWTSecret         string        // Required outside dev: HMAC key for every token
	JWTAlgorithm      string        // HS256, HS384 or HS512 (default: HS256)
	AccessTokenTTL    time.Duration // (default: 1h)
	RefreshTokenTTL   time.Duration // (default: 48h)
	ActionTokenMaxAge time.Duration // Email link lifetime (default: 24h)
	ActionTokenSalt   string        // (default: email-configuration)
	BcryptCost        int           // (default: 10)

	Domain        string // Host used in emailed links (default: localhost:8080)
	MailFrom      string // From address (default: no-reply@<Domain>)
	SMTPHost      string // Empty host logs mail instead of sending it
	SMTPPort      int    // (default: 587)
	SMTPUsername  string
	SMTPPassword  string
	MailWorkers   int // (default: 2)
	MailQueueSize int // (default: 100)

	AllowedHosts   []string // Trusted Host headers, empty allows any
	AllowedOrigins []string // CORS origins, "*" allows any
	TrustedProxies []string // Peers whose X-Forwarded-For is believed, empty trusts none

	// RateLimits per route class, overridable with
	// RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_{REQUESTS,WINDOW,BURST}.
	RateLimits httpapi.Limits

	// SecretGenerated is set when a dev run had no JWT_SECRET and an
	// ephemeral one was generated.
	SecretGenerated bool
}

func LoadConfig() Config {
	cfg := Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "bookly.db"),

		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RevocationPrefix:  getEnvOrDefault("REVOCATION_PREFIX", "bookly:revoked"),
		RevocationTimeout: getEnvDurationOrDefault("REVOCATION_TIMEOUT", 500*time.Millisecond),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTAlgorithm:      getEnvOrDefault("JWT_ALGORITHM", "HS256"),
		AccessTokenTTL:    getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:   getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		ActionTokenMaxAge: getEnvDurationOrDefault("ACTION_TOKEN_MAX_AGE", jwtx.DefaultActionTokenMaxAge),
		ActionTokenSalt:   getEnvOrDefault("ACTION_TOKEN_SALT", jwtx.DefaultActionSalt),
		BcryptCost:        getEnvIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost),

		Domain:        getEnvOrDefault("DOMAIN", "localhost:8080"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailWorkers:   getEnvIntOrDefault("MAIL_WORKERS", 2),
		MailQueueSize: getEnvIntOrDefault("MAIL_QUEUE_SIZE", 100),

		AllowedHosts:   getEnvListOrDefault("ALLOWED_HOSTS", nil),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", nil),
		TrustedProxies: getEnvListOrDefault("TRUSTED_PROXIES", nil),

		RateLimits: httpapi.Limits{
			Strict:   getEnvRateLimitOrDefault("STRICT", httpx.StrictLimit),
			Moderate: getEnvRateLimitOrDefault("MODERATE", httpx.ModerateLimit),
			Lenient:  getEnvRateLimitOrDefault("LENIENT", httpx.LenientLimit),
			Public:   getEnvRateLimitOrDefault("PUBLIC", httpx.PublicLimit),
		},
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = "no-reply@" + hostOnly(cfg.Domain)
	}

	// Dev runs get a throwaway secret so the service starts without setup.
	// Tokens do not survive a restart.
	if cfg.JWTSecret == "" && cfg.Env == "dev" {
		cfg.JWTSecret = cryptox.MustGenerateToken(minSecretBytes)
		cfg.SecretGenerated = true
	}

	return cfg
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case c.Env != "dev" && len(c.JWTSecret) < minSecretBytes:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretBytes))
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}

	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL"))
	}
	if c.ActionTokenMaxAge <= 0 {
		errs = append(errs, errors.New("ACTION_TOKEN_MAX_AGE must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required"))
	}
	if c.Domain == "" {
		errs = append(errs, errors.New("DOMAIN is required"))
	}
	for name, l := range map[string]httpx.RateLimitConfig{
		"STRICT":   c.RateLimits.Strict,
		"MODERATE": c.RateLimits.Moderate,
		"LENIENT":  c.RateLimits.Lenient,
		"PUBLIC":   c.RateLimits.Public,
	} {
		if l.RequestsPerWindow < 0 || l.Window < 0 || l.Burst < 0 {
			errs = append(errs, fmt.Errorf("RATELIMIT_%s values must not be negative", name))
		}
	}
	if _, err := httpx.ParseProxyTrust(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}
	if c.MailWorkers <= 0 || c.MailQueueSize <= 0 {
		errs = append(errs, errors.New("MAIL_WORKERS and MAIL_QUEUE_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvRateLimitOrDefault reads RATELIMIT_<class>_REQUESTS, _WINDOW and
// _BURST over def.
func getEnvRateLimitOrDefault(class string, def httpx.RateLimitConfig) httpx.RateLimitConfig {
	prefix := "RATELIMIT_" + class + "_"
	return httpx.RateLimitConfig{
		RequestsPerWindow: getEnvIntOrDefault(prefix+"REQUESTS", def.RequestsPerWindow),
		Window:            getEnvDurationOrDefault(prefix+"WINDOW", def.Window),
		Burst:             getEnvIntOrDefault(prefix+"BURST", def.Burst),
	}
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hostOnly(domain string) string {
	host, _, found := strings.Cut(domain, ":")
	if !found {
		return domain
	}
	return host
}
