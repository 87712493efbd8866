package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rookgm/gofood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	var token string
	assert.ErrorIs(t, s.Get(KeyToken, &token), ErrNotFound)

	require.NoError(t, s.Set(KeyToken, "abc"))
	require.NoError(t, s.Get(KeyToken, &token))
	assert.Equal(t, "abc", token)

	loc := models.Location{Name: "Osu", Lat: 5.55, Lon: -0.18}
	require.NoError(t, s.Set(KeyLocation, loc))
	var got models.Location
	require.NoError(t, s.Get(KeyLocation, &got))
	assert.Equal(t, loc, got)

	require.NoError(t, s.Delete(KeyToken))
	assert.ErrorIs(t, s.Get(KeyToken, &token), ErrNotFound)
	assert.NoError(t, s.Delete(KeyToken))
}

func TestStore_SetLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Set(KeySlot, i))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "slot.json", entries[0].Name())

	var slot int
	require.NoError(t, s.Get(KeySlot, &slot))
	assert.Equal(t, 2, slot)
}

func TestStore_InvalidKey(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../cart", "a/b", ".hidden"} {
		assert.ErrorIs(t, s.Set(key, 1), ErrInvalidKey, key)
	}
}

func TestStore_Persistent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyUser, models.User{ID: "u1", Name: "ama"}))

	reopened, err := Open(dir)
	require.NoError(t, err)

	var user models.User
	require.NoError(t, reopened.Get(KeyUser, &user))
	assert.Equal(t, "ama", user.Name)
}
