package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/guilherme-michels/clinic-up-sub000/internal/platform/apperr"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only")

func newTestTokens() *Tokens {
	return NewTokens(JWTConfig{Issuer: "clinicup", SigningKey: testSigningKey, TTL: time.Hour})
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := newTestTokens()
	accountID := uuid.New()

	tokenStr, expires, err := tokens.Issue(accountID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 59*time.Minute {
		t.Errorf("expected expiry about one hour out, got %s", expires)
	}

	claims, err := tokens.Verify(tokenStr)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	got, err := claims.AccountID()
	if err != nil || got != accountID {
		t.Errorf("expected subject %s, got %s (%v)", accountID, got, err)
	}
	if claims.Issuer != "clinicup" {
		t.Errorf("expected issuer clinicup, got %s", claims.Issuer)
	}
}

func TestTokens_VerifyRejects(t *testing.T) {
	tokens := newTestTokens()

	expired := NewTokens(JWTConfig{Issuer: "clinicup", SigningKey: testSigningKey, TTL: time.Hour})
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	otherKey := NewTokens(JWTConfig{Issuer: "clinicup", SigningKey: []byte("another-key"), TTL: time.Hour})
	wrongSig, _, _ := otherKey.Issue(uuid.New())

	otherIssuer := NewTokens(JWTConfig{Issuer: "someone-else", SigningKey: testSigningKey, TTL: time.Hour})
	wrongIss, _, _ := otherIssuer.Issue(uuid.New())

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "clinicup",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	badSubject, _ := noSubject.SignedString(testSigningKey)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: uuid.NewString(),
		Issuer:  "clinicup",
	})
	missingExp, _ := noExpiry.SignedString(testSigningKey)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"expired", expiredToken},
		{"wrong signature", wrongSig},
		{"wrong issuer", wrongIss},
		{"bad subject", badSubject},
		{"missing expiry", missingExp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			if !apperr.Is(err, apperr.KindUnauthorized) {
				t.Errorf("expected UNAUTHORIZED, got %v", err)
			}
		})
	}
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "clinicup",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(testSigningKey)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newTestTokens().Verify(signed); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected HS512 token to be rejected, got %v", err)
	}
}
