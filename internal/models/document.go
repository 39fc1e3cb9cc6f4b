// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Document statuses. Stored as free text, these are the values the
// server itself writes.
const (
	DocumentStatusDraft = "draft"
	DocumentStatusSent  = "sent"
)

// Document belongs to exactly one user.
type Document struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"-"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
