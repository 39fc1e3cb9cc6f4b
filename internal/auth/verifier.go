// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth verifies bearer credentials and carries the resulting
// identity through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a bearer credential cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the result of verifying a bearer credential.
type Identity struct {
	Subject string
	Email   string
}

// Verifier validates an opaque bearer credential and returns the
// stable subject identity behind it.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// JWTVerifier validates HS256-signed JWTs. This is the production
// verifier; the subject claim becomes the user id.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HS256 tokens signed with secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token and returns its identity.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Subject: c.Subject, Email: c.Email}, nil
}

// StaticVerifier resolves a fixed table of tokens to fixed identities.
// It exists for the testing configuration only and must never be wired
// into a production server.
type StaticVerifier struct {
	tokens map[string]Identity
}

// NewStaticVerifier returns a verifier preloaded with the fixed test
// tokens.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{
		tokens: map[string]Identity{
			"valid_user":  {Subject: "1", Email: "user@example.com"},
			"valid_user2": {Subject: "2", Email: "user2@example.com"},
			"valid_admin": {Subject: "3", Email: "admin@example.com"},
		},
	}
}

// Verify looks the token up in the static table.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	ident, ok := v.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &ident, nil
}
