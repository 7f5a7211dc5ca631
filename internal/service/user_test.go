package service

import (
	"context"
	"testing"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateHashesPassword(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "a@example.com", "hunter22")

	hash := f.storedHash(t, "a@example.com")
	assert.NotEqual(t, "hunter22", hash)
	assert.NotEmpty(t, hash)
}

func TestUserService_CreateRejectsOverlongPassword(t *testing.T) {
	f := newFixture(t)

	user := &model.User{Username: "rider", Name: "Rider", Email: "a@example.com", Phone: "555"}
	err := f.users.Create(context.Background(), user, longPassword())
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestUserService_UpdatePasswordPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.createUser(t, "a@example.com", "hunter22")
	original := f.storedHash(t, "a@example.com")

	for _, blank := range []string{"", "   "} {
		update := &model.User{ID: user.ID, Username: "rider", Name: "Renamed", Email: "a@example.com", Phone: "555"}
		require.NoError(t, f.users.Update(ctx, update, blank))
		assert.Equal(t, original, f.storedHash(t, "a@example.com"))
	}

	update := &model.User{ID: user.ID, Username: "rider", Name: "Renamed", Email: "a@example.com", Phone: "555"}
	require.NoError(t, f.users.Update(ctx, update, "new-password"))
	assert.NotEqual(t, original, f.storedHash(t, "a@example.com"))

	matches, err := f.users.Login(ctx, "a@example.com", "new-password")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.createUser(t, "a@example.com", "hunter22")

	matches, err := f.users.Login(ctx, "a@example.com", "hunter22")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, user.ID, matches[0].ID)
	assert.Empty(t, matches[0].PasswordHash)

	matches, err = f.users.Login(ctx, "a@example.com", "wrong")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)

	matches, err = f.users.Login(ctx, "missing@example.com", "hunter22")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestUserService_SetAvatarReplacesFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.createUser(t, "a@example.com", "hunter22")

	first := f.storeFile(t, "first.png")
	require.NoError(t, f.users.SetAvatar(ctx, user.ID, &first))

	second := f.storeFile(t, "second.png")
	require.NoError(t, f.users.SetAvatar(ctx, user.ID, &second))
	assert.False(t, f.fileExists(first))
	assert.True(t, f.fileExists(second))

	require.NoError(t, f.users.SetAvatar(ctx, user.ID, nil))
	assert.False(t, f.fileExists(second))

	got, err := f.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Image)
}

func TestUserService_SetAvatarUnknownUserRemovesUpload(t *testing.T) {
	f := newFixture(t)

	orphan := f.storeFile(t, "orphan.png")
	err := f.users.SetAvatar(context.Background(), 4242, &orphan)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.False(t, f.fileExists(orphan))
}

func TestUserService_DeleteRemovesFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.createUser(t, "a@example.com", "hunter22")

	avatar := f.storeFile(t, "avatar.png")
	require.NoError(t, f.users.SetAvatar(ctx, user.ID, &avatar))

	commute := &model.Commute{UserID: user.ID, StartTime: testutil.Ptr("2024-01-01T08:00:00Z")}
	require.NoError(t, f.commutes.Create(ctx, commute))
	photo := f.storeFile(t, "photo.png")
	require.NoError(t, f.commutes.AttachImage(ctx, user.ID, commute.ID, photo))

	require.NoError(t, f.users.Delete(ctx, user.ID))
	assert.False(t, f.fileExists(avatar))
	assert.False(t, f.fileExists(photo))

	// Deleting again is not an error.
	require.NoError(t, f.users.Delete(ctx, user.ID))
}
