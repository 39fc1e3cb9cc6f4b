// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the JSON HTTP handlers.
package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/services/links"
	"codeberg.org/oliverandrich/mailsafe/internal/services/mailing"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo   *repository.Repository
	links  *links.Service
	mailer *mailing.Orchestrator
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, linkService *links.Service, mailer *mailing.Orchestrator) *Handlers {
	return &Handlers{repo: repo, links: linkService, mailer: mailer}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
