// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strconv"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"github.com/labstack/echo/v4"
)

type contactRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// ListContacts returns all contacts owned by the calling user.
func (h *Handlers) ListContacts(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	contacts, err := h.repo.ListContacts(c.Request().Context(), user.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string][]models.Contact{"contacts": contacts})
}

// CreateContact creates a contact owned by the calling user. Duplicate
// emails within an owner's contact set are allowed.
func (h *Handlers) CreateContact(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	if req.Email == nil {
		return badRequest("email_required")
	}
	if req.Phone == nil {
		return badRequest("phone_required")
	}

	contact := &models.Contact{
		OwnerID: user.ID,
		Email:   *req.Email,
		Phone:   *req.Phone,
	}
	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}

	if err := h.repo.CreateContact(c.Request().Context(), contact); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, contact)
}

// DeleteContacts deletes all contacts owned by the calling user.
func (h *Handlers) DeleteContacts(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.repo.DeleteContacts(ctx, user.ID); err != nil {
		return domainError(err)
	}
	contacts, err := h.repo.ListContacts(ctx, user.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string][]models.Contact{"contacts": contacts})
}

// GetContact returns one contact owned by the calling user.
func (h *Handlers) GetContact(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	contact, err := h.repo.GetContact(c.Request().Context(), user.ID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, contact)
}

// UpdateContact applies a partial update to one contact.
func (h *Handlers) UpdateContact(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	contact, err := h.repo.GetContact(ctx, user.ID, id)
	if err != nil {
		return domainError(err)
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}

	if err := h.repo.UpdateContact(ctx, contact); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, contact)
}

// DeleteContact deletes one contact owned by the calling user.
func (h *Handlers) DeleteContact(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.DeleteContact(c.Request().Context(), user.ID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// pathID parses the :id path parameter. A non-numeric id can never
// match a record, so it reads as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not_found")
	}
	return id, nil
}
