package password

import (
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Argon2 {
	t.Helper()
	h, err := NewArgon2(Config{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	digest, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Fatalf("unexpected digest format: %q", digest)
	}
	if strings.Contains(digest, "correct horse") {
		t.Fatal("digest contains plaintext")
	}

	if !h.Verify("correct horse battery staple", digest) {
		t.Fatal("correct secret rejected")
	}
	if h.Verify("wrong secret", digest) {
		t.Fatal("wrong secret accepted")
	}
}

func TestHashProducesDistinctDigests(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same secret share a salt")
	}
	if !h.Verify("pw123", first) || !h.Verify("pw123", second) {
		t.Fatal("digest failed to verify")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := testHasher(t)

	malformed := []string{
		"",
		"plainhash",
		"$argon2id$",
		"$argon2id$v=19$m=8192,t=1,p=1$notbase64!!$digest",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$ZGlnZXN0",
	}
	for _, digest := range malformed {
		if h.Verify("pw123", digest) {
			t.Fatalf("malformed digest accepted: %q", digest)
		}
	}
}

func TestNewArgon2Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"memory below floor", func(c *Config) { c.Memory = 1024 }},
		{"zero time", func(c *Config) { c.Time = 0 }},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }},
		{"short salt", func(c *Config) { c.SaltLength = 8 }},
		{"short key", func(c *Config) { c.KeyLength = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Memory:      8192,
				Time:        1,
				Parallelism: 1,
				SaltLength:  16,
				KeyLength:   16,
			}
			tt.mutate(&cfg)
			if _, err := NewArgon2(cfg); err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}
