package jwt

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the signature algorithm for both token kinds.
type SigningMethod string

const (
	// MethodHS256 signs with per-kind shared secrets.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with per-kind Ed25519 key pairs.
	MethodEd25519 SigningMethod = "ed25519"
)

// Config carries the per-kind signing material and TTLs. For HS256 the key
// fields hold the shared secrets; for Ed25519 they hold private keys (raw or
// PEM) and the public key fields must be set.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	SigningMethod SigningMethod

	AccessKey        []byte
	RefreshKey       []byte
	AccessPublicKey  []byte // ed25519 only
	RefreshPublicKey []byte // ed25519 only

	Issuer string
	Leeway time.Duration
}

// Claims is the claim set carried by both token kinds.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and parses access and refresh tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	config Config

	signAccess    interface{}
	signRefresh   interface{}
	verifyAccess  interface{}
	verifyRefresh interface{}
}

// NewManager validates the configuration and resolves the signing keys.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if len(cfg.AccessKey) == 0 || len(cfg.RefreshKey) == 0 {
		return nil, errors.New("access and refresh keys are required")
	}
	if bytes.Equal(cfg.AccessKey, cfg.RefreshKey) {
		return nil, errors.New("access and refresh keys must differ")
	}

	m := &Manager{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		m.signAccess = cfg.AccessKey
		m.signRefresh = cfg.RefreshKey
		m.verifyAccess = cfg.AccessKey
		m.verifyRefresh = cfg.RefreshKey
	case MethodEd25519:
		var err error
		if m.signAccess, err = parseEdPrivateKey(cfg.AccessKey); err != nil {
			return nil, err
		}
		if m.signRefresh, err = parseEdPrivateKey(cfg.RefreshKey); err != nil {
			return nil, err
		}
		if m.verifyAccess, err = parseEdPublicKey(cfg.AccessPublicKey); err != nil {
			return nil, err
		}
		if m.verifyRefresh, err = parseEdPublicKey(cfg.RefreshPublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return m, nil
}

// IssueAccess signs a short-lived access token for the given user.
func (j *Manager) IssueAccess(uid, email string) (string, error) {
	return j.issue(uid, email, j.config.AccessTTL, j.signAccess)
}

// IssueRefresh signs a refresh token for the given user.
func (j *Manager) IssueRefresh(uid, email string) (string, error) {
	return j.issue(uid, email, j.config.RefreshTTL, j.signRefresh)
}

// ParseAccess verifies an access token and returns its claims.
func (j *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, j.verifyAccess)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (j *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return j.parse(tokenStr, j.verifyRefresh)
}

func (j *Manager) issue(uid, email string, ttl time.Duration, signKey interface{}) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
			Subject:   uid,
		},
	}

	token := jwt.NewWithClaims(j.getMethod(), claims)

	return token.SignedString(signKey)
}

func (j *Manager) parse(tokenStr string, verifyKey interface{}) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{j.getMethod().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(j.config.Leeway))
	}
	if j.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(j.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return verifyKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func (j *Manager) getMethod() jwt.SigningMethod {
	switch j.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
