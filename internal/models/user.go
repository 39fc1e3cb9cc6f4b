// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models defines the database entities.
package models

import "time"

// User is the identity anchor. The ID is the stable subject taken from
// the verified bearer token, not an autoincrement.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID         string    `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      string    `db:"email" json:"email"`
	Admin      bool      `db:"admin" json:"admin"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	LastActive time.Time `db:"last_active" json:"last_active"`
}
