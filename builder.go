package authgate

import (
	"errors"

	internalaudit "github.com/authgate/authgate/internal/audit"
	"github.com/authgate/authgate/jwt"
	"github.com/authgate/authgate/password"
)

// Builder assembles an [Engine]. A Builder can be used once.
type Builder struct {
	config Config

	store     CredentialStore
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the credential store backing the engine.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink sets the sink receiving audit events. The sink is only used
// when Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metric counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validate-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and constructs the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config

	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		store: b.store,
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.hasher = ph

	jm, err := jwt.NewManager(tokenManagerConfig(cfg.Token))
	if err != nil {
		return nil, err
	}
	engine.tokens = jm

	b.built = true

	return engine, nil
}

func tokenManagerConfig(tc TokenConfig) jwt.Config {
	cfg := jwt.Config{
		AccessTTL:     tc.AccessTTL,
		RefreshTTL:    tc.RefreshTTL,
		SigningMethod: jwt.SigningMethod(tc.SigningMethod),
		Issuer:        tc.Issuer,
		Leeway:        tc.Leeway,
	}

	switch jwt.SigningMethod(tc.SigningMethod) {
	case jwt.MethodEd25519:
		cfg.AccessKey = []byte(tc.AccessPrivateKeyPEM)
		cfg.AccessPublicKey = []byte(tc.AccessPublicKeyPEM)
		cfg.RefreshKey = []byte(tc.RefreshPrivateKeyPEM)
		cfg.RefreshPublicKey = []byte(tc.RefreshPublicKeyPEM)
	default:
		cfg.AccessKey = []byte(tc.AccessSecret)
		cfg.RefreshKey = []byte(tc.RefreshSecret)
	}

	return cfg
}
