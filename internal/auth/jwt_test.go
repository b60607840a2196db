package auth

import (
	"testing"
	"time"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "publisher-site-test",
		Duration: time.Hour,
	}
}

func TestSignAndParse(t *testing.T) {
	ts := testTokens()
	u := &User{
		ID:           "u-1",
		Username:     "editor",
		Role:         "editor",
		TokenVersion: 3,
	}

	token, exp, err := ts.Sign(u)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry %v is not in the future", exp)
	}

	claims, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "editor" || claims.Role != "editor" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("token_version = %d, want 3", claims.TokenVersion)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testTokens()
	token, _, err := ts.Sign(&User{ID: "u-1", Username: "x", Role: "editor"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	other := testTokens()
	other.Secret = []byte("different-secret")
	if _, err := other.Parse(token); err == nil {
		t.Error("token signed with another secret parsed")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testTokens()
	ts.Duration = -time.Minute

	token, _, err := ts.Sign(&User{ID: "u-1", Username: "x", Role: "editor"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := ts.Parse(token); err == nil {
		t.Error("expired token parsed")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	ts := testTokens()
	if _, err := ts.Parse("not.a.token"); err == nil {
		t.Error("garbage parsed as token")
	}
}
