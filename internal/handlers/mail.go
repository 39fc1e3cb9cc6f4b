// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type mailRequest struct {
	DocID      *int64  `json:"doc_id"`
	ContactIDs []int64 `json:"contact_ids"`
}

type mailResult struct {
	ContactID int64  `json:"contact_id"`
	Email     string `json:"email"`
	Error     string `json:"error,omitempty"`
}

type mailResponse struct {
	Sent    int          `json:"sent"`
	Failed  int          `json:"failed"`
	Results []mailResult `json:"results"`
}

// SendDocument mails a document to the calling user's contacts, one
// single-use link per contact. Partial failure returns 502 with the
// full per-contact breakdown; emails that already went out stay
// reported as sent.
func (h *Handlers) SendDocument(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req mailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_json")
	}
	if req.DocID == nil {
		return badRequest("doc_id_required")
	}

	report, err := h.mailer.SendDocument(c.Request().Context(), user, *req.DocID, req.ContactIDs)
	if err != nil {
		return domainError(err)
	}

	resp := mailResponse{
		Sent:    report.Sent,
		Failed:  report.Failed,
		Results: make([]mailResult, len(report.Results)),
	}
	for i, res := range report.Results {
		resp.Results[i] = mailResult{ContactID: res.ContactID, Email: res.Email}
		if res.Err != nil {
			resp.Results[i].Error = res.Err.Error()
		}
	}

	status := http.StatusOK
	if report.Failed > 0 {
		status = http.StatusBadGateway
	}
	return c.JSON(status, resp)
}
