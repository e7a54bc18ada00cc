package service_test

import (
	"net/http"
	"testing"

	"timeforge/cmd/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_IdempotentOnEmail(t *testing.T) {
	s := newStack(t)

	first, created, apierr := s.users.CreateUser(&service.CreateUserRequest{
		Name:  "Owner",
		Email: "Owner@Example.com",
	})
	require.Nil(t, apierr)
	assert.True(t, created)
	assert.Equal(t, "owner@example.com", first.Email)

	second, created, apierr := s.users.CreateUser(&service.CreateUserRequest{
		Name:  "Someone Else",
		Email: "owner@example.com",
	})
	require.Nil(t, apierr)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Owner", second.Name, "the existing profile wins")
}

func TestCreateUser_Validation(t *testing.T) {
	s := newStack(t)

	_, _, apierr := s.users.CreateUser(&service.CreateUserRequest{Name: "X", Email: "not-an-email"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestUpdateUser_PatchSemantics(t *testing.T) {
	s := newStack(t)
	user := s.createUser(t, "Owner", "owner@example.com")

	tz := "Asia/Dhaka"
	updated, apierr := s.users.UpdateUser(user.ID, &service.UpdateUserRequest{TimeZone: &tz})
	require.Nil(t, apierr)
	assert.Equal(t, "Asia/Dhaka", updated.TimeZone)
	assert.Equal(t, "Owner", updated.Name, "omitted fields stay untouched")

	updated, apierr = s.users.UpdateUser(user.ID, &service.UpdateUserRequest{Name: "Renamed"})
	require.Nil(t, apierr)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Asia/Dhaka", updated.TimeZone)
}

func TestSearchUsers(t *testing.T) {
	s := newStack(t)
	s.createUser(t, "Alice Rahman", "alice@example.com")
	s.createUser(t, "Bob Karim", "bob@example.com")

	users, apierr := s.users.SearchUsers("ali")
	require.Nil(t, apierr)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice Rahman", users[0].Name)
}
