package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/database"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(&out)
	cmd.ErrWriter = &bytes.Buffer{}
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	out, err := run(t, "--db", path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	// Running again is a no-op.
	_, err = run(t, "--db", path, "migrate")
	require.NoError(t, err)
}

func TestUserAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	out, err := run(t, "--db", path, "user", "add", "--username", "chef", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "created user chef")

	db, err := database.New(path)
	require.NoError(t, err)
	defer db.Close()

	user, err := services.NewUserService(db).GetUserByUsername(context.Background(), "chef")
	require.NoError(t, err)
	ok, err := auth.ComparePassword(user.PasswordHash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserAdd_Duplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	_, err := run(t, "--db", path, "user", "add", "-u", "chef", "-p", "one")
	require.NoError(t, err)

	_, err = run(t, "--db", path, "user", "add", "-u", "chef", "-p", "two")
	assert.ErrorContains(t, err, "already exists")
}

func TestUserAdd_MissingFlags(t *testing.T) {
	t.Setenv("RECIPES_PASSWORD", "")
	path := filepath.Join(t.TempDir(), "recipes.db")

	_, err := run(t, "--db", path, "user", "add", "--username", "chef")
	assert.Error(t, err)
}
