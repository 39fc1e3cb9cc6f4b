// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Link is a single-use share capability binding a document to a
// contact. The ID doubles as the bearer capability embedded in the
// redemption URL; the OTP is a second, shorter-lived secret.
//
// After creation only Clicked changes (at redemption), plus the
// FailedAttempts/LockedUntil pair that tracks OTP guessing.
type Link struct { //nolint:govet // fieldalignment: readability over optimization
	ID             string     `db:"id" json:"id"`
	ContactID      int64      `db:"contact_id" json:"contact_id"`
	DocumentID     int64      `db:"document_id" json:"document_id"`
	Clicked        bool       `db:"clicked" json:"clicked"`
	ExpiresAt      time.Time  `db:"expires_at" json:"expires_at"`
	OTP            string     `db:"otp" json:"-"`
	OTPExpiresAt   time.Time  `db:"otp_expires_at" json:"otp_expires_at"`
	FailedAttempts int64      `db:"failed_attempts" json:"-"`
	LockedUntil    *time.Time `db:"locked_until" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
