// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/mailsafe/internal/auth"
	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"github.com/labstack/echo/v4"
)

// userRequest is the body for user creation and updates. Pointers
// distinguish absent fields from empty ones so updates stay partial.
type userRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// Register creates the calling user from their verified token subject.
// A valid token without a registered user is the only state that may
// call this; an already registered subject gets a conflict.
func (h *Handlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	ident := auth.IdentityFrom(ctx)
	if ident == nil {
		return badRequest("invalid_token")
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	if req.Email == nil {
		return badRequest("email_required")
	}
	if strings.Count(*req.Email, "@") != 1 {
		return badRequest("invalid_email")
	}

	user := &models.User{
		ID:    ident.Subject,
		Email: *req.Email,
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := h.repo.CreateUser(ctx, user); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// CurrentUser returns the calling user.
func (h *Handlers) CurrentUser(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser applies a partial update to the calling user.
func (h *Handlers) UpdateCurrentUser(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	applyUserRequest(user, &req)

	if err := h.repo.UpdateUser(c.Request().Context(), user); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteCurrentUser deletes the calling user and everything they own.
func (h *Handlers) DeleteCurrentUser(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	if err := h.repo.DeleteUser(c.Request().Context(), user.ID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminGetUser returns any user by id.
func (h *Handlers) AdminGetUser(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}
	user, err := h.repo.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// AdminUpdateUser applies a partial update to any user.
func (h *Handlers) AdminUpdateUser(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.repo.GetUser(ctx, c.Param("id"))
	if err != nil {
		return domainError(err)
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	applyUserRequest(user, &req)

	if err := h.repo.UpdateUser(ctx, user); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// AdminDeleteUser deletes any user by id.
func (h *Handlers) AdminDeleteUser(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}
	if err := h.repo.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminListUsers returns all users.
func (h *Handlers) AdminListUsers(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}
	users, err := h.repo.ListUsers(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string][]models.User{"users": users})
}

// AdminDeleteAllUsers deletes every user and returns the (empty) list.
func (h *Handlers) AdminDeleteAllUsers(c echo.Context) error {
	if _, err := h.requireAdmin(c); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.repo.DeleteAllUsers(ctx); err != nil {
		return domainError(err)
	}
	users, err := h.repo.ListUsers(ctx)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string][]models.User{"users": users})
}

func applyUserRequest(user *models.User, req *userRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
}
