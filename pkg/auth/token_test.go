package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func newTestKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestSealerRoundTrip(t *testing.T) {
	sealer, err := NewSealer(newTestKey(t), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, err := sealer.IssueToken("65f000000000000000000001", "admin")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	identity, err := sealer.ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if identity.UserID != "65f000000000000000000001" {
		t.Errorf("unexpected user id: %s", identity.UserID)
	}
	if identity.Role != "admin" {
		t.Errorf("unexpected role: %s", identity.Role)
	}
}

func TestSealerRejectsExpiredToken(t *testing.T) {
	sealer, err := NewSealer(newTestKey(t), -time.Minute)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, err := sealer.IssueToken("65f000000000000000000001", "user")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, err = sealer.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSealerRejectsTamperedToken(t *testing.T) {
	sealer, err := NewSealer(newTestKey(t), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, err := sealer.IssueToken("65f000000000000000000001", "user")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if _, err := sealer.ParseToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestSealerRejectsForeignToken(t *testing.T) {
	issuer, err := NewSealer(newTestKey(t), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	verifier, err := NewSealer(newTestKey(t), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, err := issuer.IssueToken("65f000000000000000000001", "user")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for token sealed under another key, got %v", err)
	}
}

func TestNewSealerRejectsBadKeys(t *testing.T) {
	if _, err := NewSealer("not-base64!!!", time.Hour); err == nil {
		t.Error("expected error for non-base64 key")
	}

	short := base64.StdEncoding.EncodeToString(make([]byte, 16))
	if _, err := NewSealer(short, time.Hour); err == nil {
		t.Error("expected error for 16-byte key")
	}
}

func TestIdentityCan(t *testing.T) {
	admin := Identity{UserID: "a", Role: "admin"}
	user := Identity{UserID: "u", Role: "user"}

	if !admin.Can(Privileged) || !admin.Can(Standard) {
		t.Error("admin should hold both capabilities")
	}
	if user.Can(Privileged) {
		t.Error("user must not hold the privileged capability")
	}
	if !user.Can(Standard) {
		t.Error("user should hold the standard capability")
	}
}
