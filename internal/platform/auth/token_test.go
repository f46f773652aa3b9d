package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestIssuer(ttl time.Duration) *TokenIssuer {
	return NewTokenIssuer([]byte("test-secret"), ttl)
}

func TestToken_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(24 * time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, "a@x.com", RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Errorf("expected userId %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %s", claims.Email)
	}
	if claims.Role != RolePatient {
		t.Errorf("expected role %d, got %d", RolePatient, claims.Role)
	}

	sub, err := claims.SubjectID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != userID {
		t.Errorf("expected subject %s, got %s", userID, sub)
	}
}

func TestToken_Expired(t *testing.T) {
	issuer := newTestIssuer(-time.Minute)
	token, err := issuer.Issue(uuid.New(), "a@x.com", RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestToken_TamperedSignature(t *testing.T) {
	issuer := newTestIssuer(24 * time.Hour)
	token, err := issuer.Issue(uuid.New(), "a@x.com", RoleCounselor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Flip a byte in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = issuer.Verify(tampered)
	if !errors.Is(err, ErrTokenSignature) {
		t.Errorf("expected ErrTokenSignature, got %v", err)
	}
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := newTestIssuer(time.Hour).Issue(uuid.New(), "a@x.com", RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewTokenIssuer([]byte("different-secret"), time.Hour)
	_, err = other.Verify(token)
	if !errors.Is(err, ErrTokenSignature) {
		t.Errorf("expected ErrTokenSignature, got %v", err)
	}
}

func TestToken_Malformed(t *testing.T) {
	issuer := newTestIssuer(time.Hour)
	_, err := issuer.Verify("not.a.token")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed, got %v", err)
	}
}
