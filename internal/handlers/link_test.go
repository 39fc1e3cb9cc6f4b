// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/services/links"
	"codeberg.org/oliverandrich/mailsafe/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueTestLink(t *testing.T, repo *repository.Repository, linkService *links.Service) *models.Link {
	t.Helper()
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	contact := testutil.NewTestContact(t, repo, user.ID, "carol@example.com")
	document := testutil.NewTestDocument(t, repo, user.ID, "Letter")
	link, err := linkService.Issue(context.Background(), user, document.ID, contact.ID)
	require.NoError(t, err)
	return link
}

func TestRedeemLink(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	linkService := links.NewService(repo, links.Config{})
	link := issueTestLink(t, repo, linkService)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/links/"+link.ID, strings.NewReader(`{"otp": "`+link.OTP+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(link.ID)

	require.NoError(t, h.RedeemLink(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Document *models.Document `json:"document"`
		Contact  *models.Contact  `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Document)
	require.NotNil(t, resp.Contact)
	assert.Equal(t, "Letter", resp.Document.Title)
	assert.Equal(t, "carol@example.com", resp.Contact.Email)
}

func TestRedeemLink_MissingOTP(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/links/abc", strings.NewReader(`{}`))
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.RedeemLink(c)

	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestRedeemLink_UnknownLink(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/links/missing", strings.NewReader(`{"otp": "483920"}`))
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.RedeemLink(c)

	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestRedeemLink_WrongOTP(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	linkService := links.NewService(repo, links.Config{})
	link := issueTestLink(t, repo, linkService)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/links/"+link.ID, strings.NewReader(`{"otp": "wrong1"}`))
	c.SetParamNames("id")
	c.SetParamValues(link.ID)

	err := h.RedeemLink(c)

	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestRedeemLink_SecondUseConflicts(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	linkService := links.NewService(repo, links.Config{})
	link := issueTestLink(t, repo, linkService)

	e := echo.New()
	body := `{"otp": "` + link.OTP + `"}`

	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/links/"+link.ID, strings.NewReader(body))
	c.SetParamNames("id")
	c.SetParamValues(link.ID)
	require.NoError(t, h.RedeemLink(c))

	c, _ = testutil.NewEchoContext(e, http.MethodPost, "/links/"+link.ID, strings.NewReader(body))
	c.SetParamNames("id")
	c.SetParamValues(link.ID)
	err := h.RedeemLink(c)

	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestRedeemLink_ExpiredOTP(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	linkService := links.NewService(repo, links.Config{OTPTTL: time.Nanosecond})
	link := issueTestLink(t, repo, linkService)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/links/"+link.ID, strings.NewReader(`{"otp": "`+link.OTP+`"}`))
	c.SetParamNames("id")
	c.SetParamValues(link.ID)

	err := h.RedeemLink(c)

	assert.Equal(t, http.StatusGone, httpStatus(t, err))
}
