package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twentyhard/twentyhard/internal/challenge"
	"github.com/twentyhard/twentyhard/internal/model"
	"github.com/twentyhard/twentyhard/internal/repository"
)

func ptr[T any](v T) *T {
	return &v
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")

	u, err := f.users.UpdateProfile(f.ctx, "u1", ProfileUpdate{
		Name:         ptr("  Jordan "),
		Theme:        ptr(model.ThemeLight),
		TargetWeight: ptr(80.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jordan", u.Name)
	assert.Equal(t, model.ThemeLight, u.Theme)

	stored, err := f.users.ByID(f.ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored.TargetWeight)
	assert.Equal(t, 80.0, *stored.TargetWeight)

	_, err = f.users.UpdateProfile(f.ctx, "u1", ProfileUpdate{Theme: ptr("neon")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.UpdateProfile(f.ctx, "u1", ProfileUpdate{Name: ptr("   ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.UpdateProfile(f.ctx, "u1", ProfileUpdate{StartWeight: ptr(5.0)})
	assert.ErrorIs(t, err, challenge.ErrInvalidWeight)

	_, err = f.users.UpdateProfile(f.ctx, "ghost", ProfileUpdate{})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t, "2024-05-10", 20)
	f.createUser(t, "u1")
	_, err := f.challenges.LogDay(f.ctx, "u1", "2024-05-10", model.Tasks{"workout1": true})
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteAccount(f.ctx, "u1"))

	_, err = f.store.Users.ByID(f.ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = f.store.Challenges.ByUserID(f.ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrChallengeNotFound)

	assert.ErrorIs(t, f.users.DeleteAccount(f.ctx, "u1"), repository.ErrUserNotFound)
}
