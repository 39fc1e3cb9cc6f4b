// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"

	"codeberg.org/oliverandrich/mailsafe/internal/auth"
	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"github.com/labstack/echo/v4"
)

// requireUser resolves the authenticated, registered user or fails
// with 403. Handlers call it first, before any core logic runs.
func (h *Handlers) requireUser(c echo.Context) (*models.User, error) {
	ctx := c.Request().Context()

	ident := auth.IdentityFrom(ctx)
	if ident == nil {
		return nil, errForbidden
	}

	user, err := h.repo.GetUser(ctx, ident.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errForbidden
		}
		return nil, err
	}

	if err := h.repo.TouchUser(ctx, user.ID); err != nil {
		slog.Warn("failed to update last_active", "user", user.ID, "error", err)
	}

	return user, nil
}

// requireAdmin is requireUser plus the admin flag.
func (h *Handlers) requireAdmin(c echo.Context) (*models.User, error) {
	user, err := h.requireUser(c)
	if err != nil {
		return nil, err
	}
	if !user.Admin {
		return nil, errForbidden
	}
	return user, nil
}
