package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"
)

func hs256Config() Config {
	return Config{
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		SigningMethod: MethodHS256,
		AccessKey:     []byte("test-access-key"),
		RefreshKey:    []byte("test-refresh-key"),
		Issuer:        "authgate-test",
	}
}

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := newTestManager(t, hs256Config())

	access, err := m.IssueAccess("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	refresh, err := m.IssueRefresh("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	claims, err := m.ParseAccess(access)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if claims.UID != "user-1" || claims.Email != "alice@example.com" {
		t.Fatalf("claims = %q/%q", claims.UID, claims.Email)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Issuer != "authgate-test" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}

	if _, err := m.ParseRefresh(refresh); err != nil {
		t.Fatalf("ParseRefresh failed: %v", err)
	}
}

// Access and refresh tokens are signed with different keys, so a token
// of one kind can never verify as the other.
func TestCrossKindRejected(t *testing.T) {
	m := newTestManager(t, hs256Config())

	access, err := m.IssueAccess("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	refresh, err := m.IssueRefresh("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	if _, err := m.ParseRefresh(access); err == nil {
		t.Fatal("access token verified as refresh")
	}
	if _, err := m.ParseAccess(refresh); err == nil {
		t.Fatal("refresh token verified as access")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := hs256Config()
	cfg.AccessTTL = time.Millisecond
	cfg.Leeway = 0
	m := newTestManager(t, cfg)

	token, err := m.IssueAccess("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := m.ParseAccess(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := newTestManager(t, hs256Config())

	token, err := m.IssueAccess("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.ParseAccess(tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
}

func TestForeignKeyRejected(t *testing.T) {
	m := newTestManager(t, hs256Config())

	other := hs256Config()
	other.AccessKey = []byte("some-other-access-key")
	foreign := newTestManager(t, other)

	token, err := foreign.IssueAccess("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if _, err := m.ParseAccess(token); err == nil {
		t.Fatal("token from a foreign key accepted")
	}
}

func TestSameKeysRejectedByConstructor(t *testing.T) {
	cfg := hs256Config()
	cfg.RefreshKey = cfg.AccessKey
	if _, err := NewManager(cfg); err == nil {
		t.Fatal("expected constructor to reject shared signing key")
	}
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero access ttl", func(c *Config) { c.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *Config) { c.RefreshTTL = 0 }},
		{"empty access key", func(c *Config) { c.AccessKey = nil }},
		{"empty refresh key", func(c *Config) { c.RefreshKey = nil }},
		{"excessive leeway", func(c *Config) { c.Leeway = 10 * time.Minute }},
		{"unknown method", func(c *Config) { c.SigningMethod = SigningMethod("rs256") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := hs256Config()
			tt.mutate(&cfg)
			if _, err := NewManager(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	accessPub, accessPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate access key: %v", err)
	}
	refreshPub, refreshPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate refresh key: %v", err)
	}

	m := newTestManager(t, Config{
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
		SigningMethod:    MethodEd25519,
		AccessKey:        accessPriv,
		AccessPublicKey:  accessPub,
		RefreshKey:       refreshPriv,
		RefreshPublicKey: refreshPub,
	})

	token, err := m.IssueAccess("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	claims, err := m.ParseAccess(token)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if claims.UID != "user-1" {
		t.Fatalf("uid = %q", claims.UID)
	}

	refresh, err := m.IssueRefresh("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}
	if _, err := m.ParseAccess(refresh); err == nil {
		t.Fatal("refresh token verified as access")
	}
}
