// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/auth"
	"codeberg.org/oliverandrich/mailsafe/internal/database"
	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a test user in the database.
func NewTestUser(t *testing.T, repo *repository.Repository, subject, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        subject,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestAdmin creates a test admin user in the database.
func NewTestAdmin(t *testing.T, repo *repository.Repository, subject, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        subject,
		FirstName: "Test",
		LastName:  "Admin",
		Email:     email,
		Admin:     true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestContact creates a test contact owned by a user.
func NewTestContact(t *testing.T, repo *repository.Repository, ownerID, email string) *models.Contact {
	t.Helper()
	contact := &models.Contact{
		OwnerID:   ownerID,
		FirstName: "Carol",
		LastName:  "Contact",
		Email:     email,
		Phone:     "555-0100",
	}
	require.NoError(t, repo.CreateContact(context.Background(), contact))
	return contact
}

// NewTestDocument creates a test document owned by a user.
func NewTestDocument(t *testing.T, repo *repository.Repository, ownerID, title string) *models.Document {
	t.Helper()
	document := &models.Document{
		OwnerID: ownerID,
		Title:   title,
		Content: "A confidential message.",
	}
	require.NoError(t, repo.CreateDocument(context.Background(), document))
	return document
}

// NewTestLink creates an unused test link binding a contact to a document.
func NewTestLink(t *testing.T, repo *repository.Repository, contactID, documentID int64) *models.Link {
	t.Helper()
	now := time.Now()
	link := &models.Link{
		ID:           uuid.NewString(),
		ContactID:    contactID,
		DocumentID:   documentID,
		ExpiresAt:    now.Add(72 * time.Hour),
		OTP:          "483920",
		OTPExpiresAt: now.Add(2 * time.Hour),
	}
	require.NoError(t, repo.CreateLink(context.Background(), link))
	return link
}

// Authenticate attaches a verified identity to the request context,
// the way the bearer middleware would.
func Authenticate(c echo.Context, ident *auth.Identity) {
	ctx := auth.WithIdentity(c.Request().Context(), ident)
	c.SetRequest(c.Request().WithContext(ctx))
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
