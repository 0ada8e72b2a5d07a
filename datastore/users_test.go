package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/kiosk/models"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "reader", false)

	err := repo.CreateUser(context.Background(), &models.User{
		Username:       "reader",
		Email:          "different@example.com",
		HashedPassword: "hashed-password",
	})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "reader", false)

	err := repo.CreateUser(context.Background(), &models.User{
		Username:       "other",
		Email:          "reader@example.com",
		HashedPassword: "hashed-password",
	})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestGetUserByUsername(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	created := createTestUser(t, db, "reader", true)

	got, err := repo.GetUserByUsername(context.Background(), "reader")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "reader@example.com", got.Email)
	assert.True(t, got.IsAdmin)

	_, err = repo.GetUserByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	created := createTestUser(t, db, "reader", false)

	got, err := repo.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", got.Username)

	_, err = repo.GetUserByID(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}
