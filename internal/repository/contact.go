// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"github.com/vinovest/sqlx"
)

// CreateContact creates a new contact owned by contact.OwnerID and
// fills in the generated id.
func (r *Repository) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (owner_id, first_name, last_name, email, phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		contact.OwnerID, contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.CreatedAt)
	if err != nil {
		return wrapError(err)
	}
	contact.ID, err = res.LastInsertId()
	return err
}

// GetContact retrieves a contact by id, scoped to its owner.
func (r *Repository) GetContact(ctx context.Context, ownerID string, id int64) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.GetContext(ctx, &contact,
		`SELECT * FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &contact, nil
}

// GetContactByID retrieves a contact by bare id, without owner
// scoping. Only the redemption path uses this; a link holder has no
// owner credentials.
func (r *Repository) GetContactByID(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT * FROM contacts WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &contact, nil
}

// UpdateContact updates a contact scoped to its owner.
func (r *Repository) UpdateContact(ctx context.Context, contact *models.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET first_name = ?, last_name = ?, email = ?, phone = ?
		 WHERE id = ? AND owner_id = ?`,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.ID, contact.OwnerID)
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

// DeleteContact deletes a contact scoped to its owner.
func (r *Repository) DeleteContact(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID)
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

// ListContacts returns all contacts owned by a user, oldest first.
func (r *Repository) ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := r.db.SelectContext(ctx, &contacts,
		`SELECT * FROM contacts WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	return contacts, nil
}

// ListContactsByID returns the owner's contacts matching the given ids.
// Ids not owned by the user are silently absent from the result.
func (r *Repository) ListContactsByID(ctx context.Context, ownerID string, ids []int64) ([]models.Contact, error) {
	if len(ids) == 0 {
		return []models.Contact{}, nil
	}
	query, args, err := sqlx.In(
		`SELECT * FROM contacts WHERE owner_id = ? AND id IN (?) ORDER BY id`, ownerID, ids)
	if err != nil {
		return nil, err
	}
	contacts := []models.Contact{}
	err = r.db.SelectContext(ctx, &contacts, r.db.Rebind(query), args...)
	if err != nil {
		return nil, wrapError(err)
	}
	return contacts, nil
}

// DeleteContacts deletes all contacts owned by a user.
func (r *Repository) DeleteContacts(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE owner_id = ?`, ownerID)
	return wrapError(err)
}
