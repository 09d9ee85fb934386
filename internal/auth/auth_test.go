package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("HashPassword(short) = %v, want %v", err, ErrWeakPassword)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret-test-secret", time.Hour)

	token, err := m.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	m := NewTokenManager("test-secret-test-secret", time.Hour)
	other := NewTokenManager("another-secret-entirely", time.Hour)

	token, err := other.Generate(1)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() = %v, want %v", err, ErrInvalidToken)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret-test-secret", -time.Minute)

	token, err := m.Generate(1)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() = %v, want %v", err, ErrInvalidToken)
	}
}

func TestUserIDFromContext(t *testing.T) {
	ctx := WithUserID(context.Background(), 7)
	id, err := UserIDFromContext(ctx)
	if err != nil || id != 7 {
		t.Errorf("UserIDFromContext = %d, %v; want 7, nil", id, err)
	}

	if _, err := UserIDFromContext(context.Background()); !errors.Is(err, ErrNoUser) {
		t.Errorf("empty context: got %v, want %v", err, ErrNoUser)
	}
}
