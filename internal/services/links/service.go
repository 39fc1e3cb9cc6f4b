// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package links implements single-use share links: issuance of an
// id+OTP capability pair and its one-shot redemption.
package links

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"github.com/google/uuid"
)

const otpCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config holds the issuance and lockout policy.
type Config struct { //nolint:govet // fieldalignment not critical for config structs
	LinkTTL        time.Duration // lifetime of the base link capability
	OTPTTL         time.Duration // lifetime of the OTP, independent of LinkTTL
	OTPLength      int           // characters in the generated OTP
	OTPMaxAttempts int64         // consecutive failures before lockout
	OTPLockout     time.Duration // how long a locked link rejects attempts
}

func (c Config) withDefaults() Config {
	if c.LinkTTL <= 0 {
		c.LinkTTL = 72 * time.Hour
	}
	if c.OTPTTL <= 0 {
		c.OTPTTL = 2 * time.Hour
	}
	if c.OTPLength <= 0 {
		c.OTPLength = 6
	}
	if c.OTPMaxAttempts <= 0 {
		c.OTPMaxAttempts = 5
	}
	if c.OTPLockout <= 0 {
		c.OTPLockout = 15 * time.Minute
	}
	return c
}

// Service issues and redeems links.
type Service struct {
	repo *repository.Repository
	cfg  Config

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewService creates a link service. Zero config fields fall back to
// defaults (72h link, 2h OTP, 6 chars, 5 attempts, 15m lockout).
func NewService(repo *repository.Repository, cfg Config) *Service {
	return &Service{repo: repo, cfg: cfg.withDefaults(), Now: time.Now}
}

// Issue creates a single-use link binding the user's document to the
// user's contact. Both must exist and be owned by the user; either
// missing collapses to repository.ErrNotFound without naming which
// lookup failed.
func (s *Service) Issue(ctx context.Context, user *models.User, documentID, contactID int64) (*models.Link, error) {
	if _, err := s.repo.GetDocument(ctx, user.ID, documentID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetContact(ctx, user.ID, contactID); err != nil {
		return nil, err
	}

	otp, err := generateOTP(s.cfg.OTPLength)
	if err != nil {
		return nil, fmt.Errorf("generating otp: %w", err)
	}

	now := s.Now()
	link := &models.Link{
		ID:           newLinkID(),
		ContactID:    contactID,
		DocumentID:   documentID,
		ExpiresAt:    now.Add(s.cfg.LinkTTL),
		OTP:          otp,
		OTPExpiresAt: now.Add(s.cfg.OTPTTL),
		CreatedAt:    now,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("storing link: %w", err)
	}
	return link, nil
}

// Redemption is the result of a successful redemption: the bound
// document/contact pair.
type Redemption struct {
	Link     *models.Link
	Contact  *models.Contact
	Document *models.Document
}

// Redeem validates a redemption attempt. Checks run in a fixed order
// so error precedence is deterministic: existence, single-use, link
// expiry, OTP expiry, lockout, OTP match. On success clicked flips
// false to true exactly once; a concurrent second attempt observes
// ErrAlreadyUsed.
func (s *Service) Redeem(ctx context.Context, linkID, otp string) (*Redemption, error) {
	link, err := s.repo.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	switch {
	case link.Clicked:
		return nil, ErrAlreadyUsed
	case !now.Before(link.ExpiresAt):
		return nil, ErrExpired
	case !now.Before(link.OTPExpiresAt):
		return nil, ErrOTPExpired
	case link.LockedUntil != nil && now.Before(*link.LockedUntil):
		return nil, ErrRateLimited
	}

	if subtle.ConstantTimeCompare([]byte(otp), []byte(link.OTP)) != 1 {
		attempts := link.FailedAttempts + 1
		var lockedUntil *time.Time
		if attempts >= s.cfg.OTPMaxAttempts {
			t := now.Add(s.cfg.OTPLockout)
			lockedUntil = &t
			attempts = 0
		}
		if recErr := s.repo.UpdateLinkAttempts(ctx, link.ID, attempts, lockedUntil); recErr != nil {
			return nil, fmt.Errorf("recording failed attempt: %w", recErr)
		}
		return nil, ErrInvalidOTP
	}

	if err := s.repo.MarkLinkClicked(ctx, link.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyUsed
		}
		return nil, err
	}
	link.Clicked = true

	contact, err := s.repo.GetContactByID(ctx, link.ContactID)
	if err != nil {
		return nil, err
	}
	document, err := s.repo.GetDocumentByID(ctx, link.DocumentID)
	if err != nil {
		return nil, err
	}

	return &Redemption{Link: link, Contact: contact, Document: document}, nil
}

// newLinkID returns the hex form of a random UUID: 32 chars, 122 bits
// of entropy.
func newLinkID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// generateOTP returns a human-enterable random code drawn from the
// alphanumeric charset.
func generateOTP(length int) (string, error) {
	code := make([]byte, length)
	limit := big.NewInt(int64(len(otpCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		code[i] = otpCharset[n.Int64()]
	}
	return string(code), nil
}
