// ABOUTME: Unit tests for JWT bearer token verification and generation
// ABOUTME: Tests valid tokens, invalid tokens, and expired tokens

package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTVerifier_ValidToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing!")
	verifier := NewJWTVerifier(secret)

	login := "octocat"
	token, err := verifier.Generate(login, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	gotLogin, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if gotLogin != login {
		t.Errorf("Verify() = %q, want %q", gotLogin, login)
	}
}

func TestJWTVerifier_InvalidToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing!")
	verifier := NewJWTVerifier(secret)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				otherVerifier := NewJWTVerifier([]byte("a-different-secret-for-signing!!"))
				token, _ := otherVerifier.Generate("octocat", time.Hour)
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if err == nil {
				t.Error("Verify() should have returned an error")
			}
		})
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing!")
	verifier := NewJWTVerifier(secret)

	token, err := verifier.Generate("octocat", -time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}
