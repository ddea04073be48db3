package authgate

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the sectioned engine configuration. Instances are intended to be
// populated during initialization (literal, [DefaultConfig], or [FromEnv])
// and then treated as immutable.
type Config struct {
	Token    TokenConfig    `envPrefix:"AUTHGATE_TOKEN_"`
	Password PasswordConfig `envPrefix:"AUTHGATE_PASSWORD_"`
	Audit    AuditConfig    `envPrefix:"AUTHGATE_AUDIT_"`
	Metrics  MetricsConfig  `envPrefix:"AUTHGATE_METRICS_"`
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls JWT issuance and verification. Access and refresh
// tokens are signed with distinct keys so a token of one kind can never
// verify as the other.
type TokenConfig struct {
	AccessTTL     time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
	SigningMethod string        `env:"SIGNING_METHOD" envDefault:"hs256"` // "hs256" (default), "ed25519" optional
	AccessSecret  string        `env:"ACCESS_SECRET"`
	RefreshSecret string        `env:"REFRESH_SECRET"`

	// PEM-encoded key material, used only with the ed25519 method.
	AccessPrivateKeyPEM  string `env:"ACCESS_PRIVATE_KEY_PEM"`
	AccessPublicKeyPEM   string `env:"ACCESS_PUBLIC_KEY_PEM"`
	RefreshPrivateKeyPEM string `env:"REFRESH_PRIVATE_KEY_PEM"`
	RefreshPublicKeyPEM  string `env:"REFRESH_PUBLIC_KEY_PEM"`

	Issuer string        `env:"ISSUER" envDefault:"authgate"`
	Leeway time.Duration `env:"LEEWAY" envDefault:"30s"`
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the argon2id parameters used for password hashes and
// refresh-token fingerprints.
type PasswordConfig struct {
	Memory      uint32 `env:"MEMORY_KB" envDefault:"65536"` // in KB
	Time        uint32 `env:"TIME" envDefault:"3"`
	Parallelism uint8  `env:"PARALLELISM" envDefault:"2"`
	SaltLength  uint32 `env:"SALT_LENGTH" envDefault:"16"`
	KeyLength   uint32 `env:"KEY_LENGTH" envDefault:"32"`
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED" envDefault:"false"`
	BufferSize int  `env:"BUFFER_SIZE" envDefault:"1024"`
	DropIfFull bool `env:"DROP_IF_FULL" envDefault:"true"`
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED" envDefault:"false"`
	EnableLatencyHistograms bool `env:"ENABLE_LATENCY_HISTOGRAMS" envDefault:"false"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. Token secrets are left
// empty on purpose; they must come from the caller or the environment,
// never from code.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "authgate",
			Leeway:        30 * time.Second,
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// FromEnv loads the configuration from AUTHGATE_* environment variables,
// falling back to the same defaults as [DefaultConfig] for unset values.
// The result is not validated; [Builder.Build] runs [Config.Validate].
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config from environment: %w", err)
	}
	return cfg, nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	// Token
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token AccessTTL must be > 0")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token RefreshTTL must be > 0")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	switch c.Token.SigningMethod {
	case "hs256":
		if c.Token.AccessSecret == "" {
			return errors.New("hs256 requires AccessSecret")
		}
		if c.Token.RefreshSecret == "" {
			return errors.New("hs256 requires RefreshSecret")
		}
		if c.Token.AccessSecret == c.Token.RefreshSecret {
			return errors.New("AccessSecret and RefreshSecret must differ")
		}
	case "ed25519":
		if c.Token.AccessPrivateKeyPEM == "" || c.Token.AccessPublicKeyPEM == "" {
			return errors.New("ed25519 requires access key pair")
		}
		if c.Token.RefreshPrivateKeyPEM == "" || c.Token.RefreshPublicKeyPEM == "" {
			return errors.New("ed25519 requires refresh key pair")
		}
		if c.Token.AccessPrivateKeyPEM == c.Token.RefreshPrivateKeyPEM {
			return errors.New("access and refresh private keys must differ")
		}
	default:
		return errors.New("unsupported Token SigningMethod")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
