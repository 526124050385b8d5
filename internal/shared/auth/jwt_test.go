package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifier_IssueAndVerify(t *testing.T) {
	v := NewVerifier("my-secret-key", "", "")

	token, err := v.Issue("user-123", "test@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Errorf("Verify() got UserID %q, want %q", claims.UserID(), "user-123")
	}
	if claims.Email != "test@example.com" {
		t.Errorf("Verify() got Email %q, want %q", claims.Email, "test@example.com")
	}
}

func TestVerifier_TamperedSignature(t *testing.T) {
	v := NewVerifier("my-secret-key", "", "")
	token, _ := v.Issue("user-1", "", time.Hour)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".invalid-signature"

	_, err := v.Verify(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifier_WrongSecret(t *testing.T) {
	token, _ := NewVerifier("secret-a", "", "").Issue("user-1", "", time.Hour)

	if _, err := NewVerifier("secret-b", "", "").Verify(token); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("Verify() error = %v, want signature invalid", err)
	}
}

func TestVerifier_Expired(t *testing.T) {
	v := NewVerifier("my-secret-key", "", "")
	v.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	token, err := v.Issue("user-1", "", 24*time.Hour)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	v.now = time.Now
	_, err = v.Verify(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want token expired", err)
	}
}

func TestVerifier_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("my-secret-key"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewVerifier("my-secret-key", "", "").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifier_MissingSubject(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("my-secret-key"))

	if _, err := NewVerifier("my-secret-key", "", "").Verify(token); !errors.Is(err, ErrMissingSubject) {
		t.Errorf("Verify() error = %v, want ErrMissingSubject", err)
	}
}

func TestVerifier_IssuerAndAudience(t *testing.T) {
	issuer := NewVerifier("my-secret-key", "https://auth.example.com", "carteira")
	token, err := issuer.Issue("user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if _, err := issuer.Verify(token); err != nil {
		t.Errorf("Verify() with matching issuer/audience failed: %v", err)
	}

	other := NewVerifier("my-secret-key", "https://auth.example.com", "someone-else")
	if _, err := other.Verify(token); !errors.Is(err, jwt.ErrTokenInvalidAudience) {
		t.Errorf("Verify() error = %v, want invalid audience", err)
	}
}

func TestVerifier_InvalidFormat(t *testing.T) {
	if _, err := NewVerifier("s", "", "").Verify("invalid.token"); err == nil {
		t.Error("Verify() accepted invalid format")
	}
}
