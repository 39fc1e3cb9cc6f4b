// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
)

// CreateLink persists a link as a single atomic record.
func (r *Repository) CreateLink(ctx context.Context, link *models.Link) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO links (id, contact_id, document_id, clicked, expires_at, otp, otp_expires_at, failed_attempts, locked_until, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID, link.ContactID, link.DocumentID, link.Clicked, link.ExpiresAt,
		link.OTP, link.OTPExpiresAt, link.FailedAttempts, link.LockedUntil, link.CreatedAt)
	return wrapError(err)
}

// GetLink retrieves a link by id.
func (r *Repository) GetLink(ctx context.Context, id string) (*models.Link, error) {
	var link models.Link
	err := r.db.GetContext(ctx, &link, `SELECT * FROM links WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &link, nil
}

// MarkLinkClicked flips clicked from false to true. The update is
// conditional on the stored value still being false, so of two
// concurrent redemption attempts exactly one wins; the loser gets
// ErrConflict.
func (r *Repository) MarkLinkClicked(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET clicked = 1 WHERE id = ? AND clicked = 0`, id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateLinkAttempts records a failed OTP attempt: the new consecutive
// failure count and, once the lockout threshold is reached, the time
// until which further attempts are rejected.
func (r *Repository) UpdateLinkAttempts(ctx context.Context, id string, attempts int64, lockedUntil *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET failed_attempts = ?, locked_until = ? WHERE id = ?`,
		attempts, lockedUntil, id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLinksByDocument returns all links issued for a document.
func (r *Repository) ListLinksByDocument(ctx context.Context, documentID int64) ([]models.Link, error) {
	links := []models.Link{}
	err := r.db.SelectContext(ctx, &links,
		`SELECT * FROM links WHERE document_id = ? ORDER BY created_at`, documentID)
	if err != nil {
		return nil, wrapError(err)
	}
	return links, nil
}

// DeleteExpiredLinks removes links whose base expiry has passed.
func (r *Repository) DeleteExpiredLinks(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE expires_at < ?`, time.Now())
	return wrapError(err)
}
