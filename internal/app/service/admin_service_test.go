package service

import (
	"context"
	"errors"
	"testing"

	"melodia/internal/common"
	"melodia/internal/common/security"
	"melodia/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(t *testing.T) (*AdminService, *fakeAdminRepo) {
	t.Helper()
	users := newFakeUserRepo()
	admin := &fakeAdminRepo{}

	hash, err := security.HashPassword("admin-pass")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &model.User{
		FirstName: "Root", LastName: "Admin", Username: "root",
		Email: "admin@example.com", HashedPassword: hash, Role: model.RoleAdmin,
	}))

	hash, err = security.HashPassword("user-pass")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &model.User{
		FirstName: "Plain", LastName: "User", Username: "plain",
		Email: "user@example.com", HashedPassword: hash, Role: model.RoleUser,
	}))

	return NewAdminService(users, admin), admin
}

func TestAdminService_Login(t *testing.T) {
	svc, _ := newAdminFixture(t)

	user, err := svc.Login(context.Background(), "admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Empty(t, user.HashedPassword)
}

func TestAdminService_LoginRejections(t *testing.T) {
	svc, _ := newAdminFixture(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"WrongPassword", "admin@example.com", "nope"},
		{"UnknownEmail", "ghost@example.com", "admin-pass"},
		// Valid credentials, but the panel is admin-only.
		{"NonAdminRole", "user@example.com", "user-pass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
		})
	}
}

func TestAdminService_Dashboard(t *testing.T) {
	svc, admin := newAdminFixture(t)

	require.NoError(t, admin.LogAction(context.Background(), 1, model.ActionCreateSong, 10))
	require.NoError(t, admin.LogAction(context.Background(), 1, model.ActionCreateArtist, 20))
	require.NoError(t, admin.LogAction(context.Background(), 2, model.ActionCreateSong, 30))

	dash, err := svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Stats.SongsCreated)
	assert.Equal(t, 1, dash.Stats.ArtistsCreated)
	assert.Len(t, dash.RecentActions, 2)
}

func TestAdminService_UsersHidePasswords(t *testing.T) {
	svc, _ := newAdminFixture(t)

	users, err := svc.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.HashedPassword)
	}
}
