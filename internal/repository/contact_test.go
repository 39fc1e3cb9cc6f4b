// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContact(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")

	contact := &models.Contact{
		OwnerID:   user.ID,
		FirstName: "Carol",
		Email:     "carol@example.com",
		Phone:     "+4912345",
	}
	err := repo.CreateContact(context.Background(), contact)

	require.NoError(t, err)
	assert.NotZero(t, contact.ID)
	assert.False(t, contact.CreatedAt.IsZero())
}

func TestCreateContact_DuplicateEmailAllowed(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	ctx := context.Background()

	first := testutil.NewTestContact(t, repo, user.ID, "same@example.com")
	second := testutil.NewTestContact(t, repo, user.ID, "same@example.com")

	assert.NotEqual(t, first.ID, second.ID)

	contacts, err := repo.ListContacts(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestGetContact_ScopedToOwner(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	contact := testutil.NewTestContact(t, repo, owner.ID, "carol@example.com")

	found, err := repo.GetContact(ctx, owner.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, found.ID)

	_, err = repo.GetContact(ctx, other.ID, contact.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateContact(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	contact := testutil.NewTestContact(t, repo, user.ID, "carol@example.com")

	contact.FirstName = "Caroline"
	contact.Phone = "+4999999"
	require.NoError(t, repo.UpdateContact(ctx, contact))

	updated, err := repo.GetContact(ctx, user.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.FirstName)
	assert.Equal(t, "+4999999", updated.Phone)
}

func TestUpdateContact_WrongOwner(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	contact := testutil.NewTestContact(t, repo, owner.ID, "carol@example.com")

	contact.OwnerID = other.ID
	err := repo.UpdateContact(ctx, contact)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteContact(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	contact := testutil.NewTestContact(t, repo, user.ID, "carol@example.com")

	require.NoError(t, repo.DeleteContact(ctx, user.ID, contact.ID))

	_, err := repo.GetContact(ctx, user.ID, contact.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteContact_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")

	err := repo.DeleteContact(context.Background(), user.ID, 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListContacts_OnlyOwn(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	owner := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	testutil.NewTestContact(t, repo, owner.ID, "a@example.com")
	testutil.NewTestContact(t, repo, owner.ID, "b@example.com")
	testutil.NewTestContact(t, repo, other.ID, "c@example.com")

	contacts, err := repo.ListContacts(context.Background(), owner.ID)

	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestListContactsByID(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	a := testutil.NewTestContact(t, repo, user.ID, "a@example.com")
	testutil.NewTestContact(t, repo, user.ID, "b@example.com")
	c := testutil.NewTestContact(t, repo, user.ID, "c@example.com")

	contacts, err := repo.ListContactsByID(ctx, user.ID, []int64{a.ID, c.ID})

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	ids := []int64{contacts[0].ID, contacts[1].ID}
	assert.ElementsMatch(t, []int64{a.ID, c.ID}, ids)
}

func TestListContactsByID_SkipsForeignIDs(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	owner := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	mine := testutil.NewTestContact(t, repo, owner.ID, "a@example.com")
	theirs := testutil.NewTestContact(t, repo, other.ID, "b@example.com")

	contacts, err := repo.ListContactsByID(context.Background(), owner.ID, []int64{mine.ID, theirs.ID})

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, mine.ID, contacts[0].ID)
}

func TestDeleteContacts(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "1", "ada@example.com")
	other := testutil.NewTestUser(t, repo, "2", "bob@example.com")
	testutil.NewTestContact(t, repo, owner.ID, "a@example.com")
	testutil.NewTestContact(t, repo, owner.ID, "b@example.com")
	kept := testutil.NewTestContact(t, repo, other.ID, "c@example.com")

	require.NoError(t, repo.DeleteContacts(ctx, owner.ID))

	contacts, err := repo.ListContacts(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	remaining, err := repo.ListContacts(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}
