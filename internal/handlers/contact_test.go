// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/mailsafe/internal/auth"
	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListContacts(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	testutil.NewTestContact(t, repo, user.ID, "a@example.com")
	testutil.NewTestContact(t, repo, other.ID, "b@example.com")

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/user/contacts", nil)
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.ListContacts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Contacts []models.Contact `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Contacts, 1)
	assert.Equal(t, "a@example.com", payload.Contacts[0].Email)
}

func TestCreateContact(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")

	e := echo.New()
	body := `{"first_name": "Carol", "email": "carol@example.com", "phone": "+4912345"}`
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/user/contacts", strings.NewReader(body))
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.CreateContact(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	contacts, err := repo.ListContacts(c.Request().Context(), user.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "carol@example.com", contacts[0].Email)
}

func TestCreateContact_RequiresEmailAndPhone(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewTestUser(t, repo, "1", "ada@example.com")
	e := echo.New()

	for _, body := range []string{
		`{"phone": "+4912345"}`,
		`{"email": "carol@example.com"}`,
	} {
		c, _ := testutil.NewEchoContext(e, http.MethodPost, "/user/contacts", strings.NewReader(body))
		testutil.Authenticate(c, &auth.Identity{Subject: "1"})

		err := h.CreateContact(c)

		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err), body)
	}
}

func TestCreateContact_DuplicateEmailAllowed(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	testutil.NewTestContact(t, repo, user.ID, "same@example.com")

	e := echo.New()
	body := `{"email": "same@example.com", "phone": "+4912345"}`
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/user/contacts", strings.NewReader(body))
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.CreateContact(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetContact(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	contact := testutil.NewTestContact(t, repo, user.ID, "carol@example.com")

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/user/contacts/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(contact.ID, 10))
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.GetContact(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carol@example.com")
}

func TestGetContact_ForeignContactIsNotFound(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	contact := testutil.NewTestContact(t, repo, other.ID, "carol@example.com")

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/user/contacts/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(contact.ID, 10))
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	err := h.GetContact(c)

	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestGetContact_NonNumericID(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	testutil.NewTestUser(t, repo, "1", "ada@example.com")

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/user/contacts/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	err := h.GetContact(c)

	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestUpdateContact(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	contact := testutil.NewTestContact(t, repo, user.ID, "carol@example.com")

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPut, "/user/contacts/1", strings.NewReader(`{"phone": "+4999999"}`))
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(contact.ID, 10))
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.UpdateContact(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.GetContact(c.Request().Context(), user.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "+4999999", updated.Phone)
	assert.Equal(t, "carol@example.com", updated.Email)
}

func TestDeleteContact(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	contact := testutil.NewTestContact(t, repo, user.ID, "carol@example.com")

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodDelete, "/user/contacts/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(contact.ID, 10))
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.DeleteContact(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := repo.GetContact(c.Request().Context(), user.ID, contact.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteContacts(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	testutil.NewTestContact(t, repo, user.ID, "a@example.com")
	testutil.NewTestContact(t, repo, user.ID, "b@example.com")

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodDelete, "/user/contacts", nil)
	testutil.Authenticate(c, &auth.Identity{Subject: "1"})

	require.NoError(t, h.DeleteContacts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Contacts []models.Contact `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Empty(t, payload.Contacts)
}
