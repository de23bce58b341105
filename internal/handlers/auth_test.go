package handlers

import "testing"

func TestHashTokenDeterministic(t *testing.T) {
	a := hashToken("refresh-token-value")
	b := hashToken("refresh-token-value")
	if a != b {
		t.Error("same input must hash identically")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == hashToken("other-value") {
		t.Error("different inputs must not collide trivially")
	}
}

func TestGenerateRefreshString(t *testing.T) {
	first := generateRefreshString()
	second := generateRefreshString()
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}
	if first == second {
		t.Error("refresh tokens must be unique")
	}
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"Email":      "email",
		"FirstName":  "firstName",
		"alreadyLow": "alreadyLow",
		"X":          "x",
		"PostalCode": "postalCode",
	}
	for in, want := range cases {
		if got := lowerCamel(in); got != want {
			t.Errorf("lowerCamel(%q) = %q, want %q", in, got, want)
		}
	}
}
