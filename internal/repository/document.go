// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
)

// CreateDocument creates a new document owned by document.OwnerID and
// fills in the generated id.
func (r *Repository) CreateDocument(ctx context.Context, document *models.Document) error {
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now()
	}
	if document.Status == "" {
		document.Status = models.DocumentStatusDraft
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (owner_id, title, content, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		document.OwnerID, document.Title, document.Content, document.Status, document.CreatedAt)
	if err != nil {
		return wrapError(err)
	}
	document.ID, err = res.LastInsertId()
	return err
}

// GetDocument retrieves a document by id, scoped to its owner.
func (r *Repository) GetDocument(ctx context.Context, ownerID string, id int64) (*models.Document, error) {
	var document models.Document
	err := r.db.GetContext(ctx, &document,
		`SELECT * FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &document, nil
}

// GetDocumentByID retrieves a document by bare id, without owner
// scoping. Only the redemption path uses this.
func (r *Repository) GetDocumentByID(ctx context.Context, id int64) (*models.Document, error) {
	var document models.Document
	err := r.db.GetContext(ctx, &document, `SELECT * FROM documents WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &document, nil
}

// UpdateDocument updates a document scoped to its owner.
func (r *Repository) UpdateDocument(ctx context.Context, document *models.Document) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, content = ?, status = ? WHERE id = ? AND owner_id = ?`,
		document.Title, document.Content, document.Status, document.ID, document.OwnerID)
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

// SetDocumentStatus updates just the status of a document.
func (r *Repository) SetDocumentStatus(ctx context.Context, ownerID string, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = ? WHERE id = ? AND owner_id = ?`, status, id, ownerID)
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

// DeleteDocument deletes a document scoped to its owner.
func (r *Repository) DeleteDocument(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
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

// ListDocuments returns all documents owned by a user, oldest first.
func (r *Repository) ListDocuments(ctx context.Context, ownerID string) ([]models.Document, error) {
	documents := []models.Document{}
	err := r.db.SelectContext(ctx, &documents,
		`SELECT * FROM documents WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	return documents, nil
}

// DeleteDocuments deletes all documents owned by a user.
func (r *Repository) DeleteDocuments(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE owner_id = ?`, ownerID)
	return wrapError(err)
}
