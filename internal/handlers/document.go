// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"github.com/labstack/echo/v4"
)

type documentRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

// ListDocuments returns all documents owned by the calling user.
func (h *Handlers) ListDocuments(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	docs, err := h.repo.ListDocuments(c.Request().Context(), user.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string][]models.Document{"docs": docs})
}

// CreateDocument creates a document owned by the calling user. All
// fields are optional; status defaults to draft and is deliberately
// not validated against an enum.
func (h *Handlers) CreateDocument(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}

	document := &models.Document{OwnerID: user.ID}
	applyDocumentRequest(document, &req)

	if err := h.repo.CreateDocument(c.Request().Context(), document); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, document)
}

// DeleteDocuments deletes all documents owned by the calling user.
func (h *Handlers) DeleteDocuments(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.repo.DeleteDocuments(ctx, user.ID); err != nil {
		return domainError(err)
	}
	docs, err := h.repo.ListDocuments(ctx, user.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string][]models.Document{"docs": docs})
}

// GetDocument returns one document owned by the calling user.
func (h *Handlers) GetDocument(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	document, err := h.repo.GetDocument(c.Request().Context(), user.ID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, document)
}

// UpdateDocument applies a partial update to one document.
func (h *Handlers) UpdateDocument(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	document, err := h.repo.GetDocument(ctx, user.ID, id)
	if err != nil {
		return domainError(err)
	}

	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	applyDocumentRequest(document, &req)

	if err := h.repo.UpdateDocument(ctx, document); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, document)
}

// DeleteDocument deletes one document owned by the calling user.
func (h *Handlers) DeleteDocument(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.DeleteDocument(c.Request().Context(), user.ID, id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func applyDocumentRequest(document *models.Document, req *documentRequest) {
	if req.Title != nil {
		document.Title = *req.Title
	}
	if req.Content != nil {
		document.Content = *req.Content
	}
	if req.Status != nil {
		document.Status = *req.Status
	}
}
