package utils

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundtrip_AllKinds(t *testing.T) {
	for _, kind := range []string{PrincipalStaff, PrincipalUser, PrincipalCustomer} {
		token, err := GenerateToken("id-123", kind, nil)
		if err != nil {
			t.Fatalf("%s: generate: %v", kind, err)
		}
		principal, err := ParseToken(token)
		if err != nil {
			t.Fatalf("%s: parse: %v", kind, err)
		}
		if principal.Kind != kind {
			t.Fatalf("expected kind %s, got %s", kind, principal.Kind)
		}
		if principal.ID != "id-123" {
			t.Fatalf("expected id-123, got %s", principal.ID)
		}
	}
}

func TestTokenRoundtrip_RoleClaim(t *testing.T) {
	token, err := GenerateToken("id-123", PrincipalStaff, map[string]interface{}{"role": "admin"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	principal, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if principal.Role != "admin" {
		t.Fatalf("expected role admin, got %q", principal.Role)
	}
}

// Tokens issued before the "type" claim existed carry only a bare "sub"
// (legacy users) or a kind-specific id claim. Both must still resolve.
func TestParseToken_LegacyClaims(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		kind   string
		id     string
	}{
		{
			name:   "bare sub is a legacy user",
			claims: jwt.MapClaims{"sub": "u-1"},
			kind:   PrincipalUser,
			id:     "u-1",
		},
		{
			name:   "staffId without type",
			claims: jwt.MapClaims{"sub": "s-1", "staffId": "s-1"},
			kind:   PrincipalStaff,
			id:     "s-1",
		},
		{
			name:   "customerId without type",
			claims: jwt.MapClaims{"sub": "c-1", "customerId": "c-1"},
			kind:   PrincipalCustomer,
			id:     "c-1",
		},
	}

	for _, tc := range cases {
		tc.claims["exp"] = time.Now().Add(time.Hour).Unix()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc.claims)
		signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
		if err != nil {
			t.Fatalf("%s: sign: %v", tc.name, err)
		}

		principal, err := ParseToken(signed)
		if err != nil {
			t.Fatalf("%s: parse: %v", tc.name, err)
		}
		if principal.Kind != tc.kind {
			t.Fatalf("%s: expected kind %s, got %s", tc.name, tc.kind, principal.Kind)
		}
		if principal.ID != tc.id {
			t.Fatalf("%s: expected id %s, got %s", tc.name, tc.id, principal.ID)
		}
	}
}

func TestParseToken_Expired(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u-1",
		"type": PrincipalUser,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = ParseToken(signed)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExchangeOAuthProfile(t *testing.T) {
	email, name, googleID, err := ExchangeOAuthProfile(OAuthProfile{
		Subject: "google-123",
		Email:   " Jane@Example.com ",
		Name:    "Jane Doe",
	})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if email != "jane@example.com" {
		t.Fatalf("expected normalised email, got %q", email)
	}
	if name != "Jane Doe" || googleID != "google-123" {
		t.Fatalf("unexpected result %q %q", name, googleID)
	}

	if _, _, _, err := ExchangeOAuthProfile(OAuthProfile{Email: "x@y.z"}); err == nil {
		t.Fatal("expected error for missing subject")
	}
}
