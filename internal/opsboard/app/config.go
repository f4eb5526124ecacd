package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/tracex"
)

type Config struct {
	Port                int           `env:"PORT" envDefault:"8080"`
	Env                 string        `env:"ENV" envDefault:"dev"`         // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"` // json, text
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	DatabaseFile   string `env:"DATABASE_FILE" envDefault:"opsboard.db"`
	PepperFile     string `env:"PEPPER_FILE" envDefault:"pepper"`
	SigningKeyFile string `env:"SIGNING_KEY_FILE" envDefault:"signing.key"`
	KeyID          string `env:"KEY_ID" envDefault:"opsboard-1"`

	Issuer     string        `env:"ISSUER" envDefault:"opsboard"`
	Audience   []string      `env:"AUDIENCE" envDefault:"opsboard" envSeparator:","`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// BootstrapToken enables POST /v1/bootstrap when set.
	BootstrapToken string `env:"BOOTSTRAP_TOKEN"`
	BootstrapRole  string `env:"BOOTSTRAP_ROLE" envDefault:"super_admin"`

	InvitationTTL        time.Duration `env:"INVITATION_TTL" envDefault:"168h"`
	MinPasswordLength    int           `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
	AdminLevel           int           `env:"ADMIN_LEVEL" envDefault:"2"`
	BulkConcurrency      int           `env:"BULK_CONCURRENCY" envDefault:"4"`
	CallTimeout          time.Duration `env:"CALL_TIMEOUT" envDefault:"5s"`
	ClaimTimeout         time.Duration `env:"CLAIM_TIMEOUT" envDefault:"1m"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	LoginPath  string `env:"LOGIN_PATH" envDefault:"/login"`
	PolicyFile string `env:"POLICY_FILE"` // empty uses the built-in access matrix

	StrictLimit   httpx.RateLimitConfig `envPrefix:"RATE_STRICT_"`
	ModerateLimit httpx.RateLimitConfig `envPrefix:"RATE_MODERATE_"`
	LenientLimit  httpx.RateLimitConfig `envPrefix:"RATE_LENIENT_"`

	Tracing tracex.Config `envPrefix:"OTEL_"`
}

// LoadConfig reads OPSBOARD_* environment variables.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{Prefix: "OPSBOARD_"})
}

func parseConfig(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.InvitationTTL <= 0 {
		errs = append(errs, errors.New("invitation ttl must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.MinPasswordLength < 1 {
		errs = append(errs, errors.New("min password length must be at least 1"))
	}
	if c.BulkConcurrency < 1 {
		errs = append(errs, errors.New("bulk concurrency must be at least 1"))
	}
	if c.ClaimTimeout <= 0 {
		errs = append(errs, errors.New("claim timeout must be positive"))
	}
	if c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("housekeeping interval must be positive"))
	}
	if !strings.HasPrefix(c.LoginPath, "/") {
		errs = append(errs, fmt.Errorf("login path %q must start with /", c.LoginPath))
	}
	if len(c.Audience) == 0 {
		errs = append(errs, errors.New("audience must not be empty"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("otel sample ratio %v out of range", c.Tracing.SampleRatio))
	}
	return errors.Join(errs...)
}
