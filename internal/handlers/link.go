// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"github.com/labstack/echo/v4"
)

type redeemRequest struct {
	OTP string `json:"otp"`
}

type redeemResponse struct {
	Document *models.Document `json:"document"`
	Contact  *models.Contact  `json:"contact"`
}

// RedeemLink redeems a share link by id and OTP. No authentication:
// the link id is the bearer capability, the OTP the second factor.
func (h *Handlers) RedeemLink(c echo.Context) error {
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	if req.OTP == "" {
		return badRequest("otp_required")
	}

	redemption, err := h.links.Redeem(c.Request().Context(), c.Param("id"), req.OTP)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, redeemResponse{
		Document: redemption.Document,
		Contact:  redemption.Contact,
	})
}
