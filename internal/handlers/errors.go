// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/services/links"
	"github.com/labstack/echo/v4"
)

var errForbidden = echo.NewHTTPError(http.StatusForbidden, "forbidden")

// badRequest returns a 400 with a machine-readable code.
func badRequest(code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, code)
}

// domainError maps service and repository errors to HTTP errors. The
// server's error handler renders them as {"error": code}.
func domainError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not_found")
	case errors.Is(err, repository.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "conflict")
	case errors.Is(err, links.ErrAlreadyUsed):
		return echo.NewHTTPError(http.StatusConflict, "already_used")
	case errors.Is(err, links.ErrExpired):
		return echo.NewHTTPError(http.StatusGone, "link_expired")
	case errors.Is(err, links.ErrOTPExpired):
		return echo.NewHTTPError(http.StatusGone, "otp_expired")
	case errors.Is(err, links.ErrInvalidOTP):
		return echo.NewHTTPError(http.StatusForbidden, "invalid_otp")
	case errors.Is(err, links.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate_limited")
	default:
		return err
	}
}
