package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/storage"
	"github.com/commutelog/api/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users     *UserService
	commutes  *CommuteService
	userRepo  repository.UserRepository
	uploadDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewDB(t)
	uploadDir := t.TempDir()

	local, err := storage.NewLocalStorage(uploadDir)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(database)
	commuteRepo := repository.NewCommuteRepository(database)
	files := NewFileService(local)

	users := NewUserService(userRepo, files)
	users.hashCost = bcrypt.MinCost

	return &fixture{
		users:     users,
		commutes:  NewCommuteService(commuteRepo, files),
		userRepo:  userRepo,
		uploadDir: uploadDir,
	}
}

func (f *fixture) createUser(t *testing.T, email, password string) *model.User {
	t.Helper()

	user := &model.User{Username: "rider", Name: "Rider", Email: email, Phone: "555"}
	require.NoError(t, f.users.Create(context.Background(), user, password))
	return user
}

// storeFile drops a file into the upload dir as if it had been uploaded.
func (f *fixture) storeFile(t *testing.T, name string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.uploadDir, name), []byte("x"), 0o644))
	return name
}

func (f *fixture) fileExists(name string) bool {
	_, err := os.Stat(filepath.Join(f.uploadDir, name))
	return err == nil
}

func (f *fixture) storedHash(t *testing.T, email string) string {
	t.Helper()

	users, err := f.userRepo.ByEmail(context.Background(), email)
	require.NoError(t, err)
	require.Len(t, users, 1)
	return users[0].PasswordHash
}

func longPassword() string {
	return strings.Repeat("p", 73)
}
