package authgate

import "testing"

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"lowercase scheme", "bearer abc", "", false},
		{"empty token", "Bearer ", "", false},
		{"no space", "Bearerabc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			if ok != tt.ok || token != tt.token {
				t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v",
					tt.header, token, ok, tt.token, tt.ok)
			}
		})
	}
}
