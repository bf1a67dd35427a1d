package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewFileStorage(path)

	_, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("token", "token-1-1"))
	require.NoError(t, s.Set("user", `{"id":1}`))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := NewFileStorage(path)
	v, ok, err := reopened.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token-1-1", v)

	require.NoError(t, reopened.Remove("token"))
	require.NoError(t, reopened.Remove("missing"))

	_, ok, err = s.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = s.Get("user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, v)
}

func TestFileStorageCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStorage(path).Get("token")
	assert.Error(t, err)
}

func TestGuardOverFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	g := NewGuard(NewFileStorage(path))
	_, err := g.Login(SessionUser{ID: 1, Name: "Admin User", Email: "admin@example.com"}, "token-1-5")
	require.NoError(t, err)

	resumed := NewGuard(NewFileStorage(path))
	assert.True(t, resumed.IsAuthenticated())
	u, ok := resumed.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", u.Email)
}
