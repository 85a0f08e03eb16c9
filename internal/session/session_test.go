package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	file := filepath.Join(t.TempDir(), "session.json")

	t.Run("starts logged out", func(t *testing.T) {
		s := NewAt(file)
		assert.False(t, s.LoggedIn())
		_, err := s.Token()
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("establish persists token", func(t *testing.T) {
		s := NewAt(file)
		require.NoError(t, s.Establish("tok-123"))
		require.NoError(t, s.SetUser("jane", "jane@example.com"))

		tok, err := s.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", tok)
		assert.True(t, s.LoggedIn())
	})

	t.Run("reload picks up persisted state", func(t *testing.T) {
		s := NewAt(file)
		assert.True(t, s.LoggedIn())
		tok, err := s.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", tok)
		username, email := s.User()
		assert.Equal(t, "jane", username)
		assert.Equal(t, "jane@example.com", email)
	})

	t.Run("clear removes file and state", func(t *testing.T) {
		s := NewAt(file)
		require.NoError(t, s.Clear())
		assert.False(t, s.LoggedIn())
		_, err := os.Stat(file)
		assert.True(t, os.IsNotExist(err))

		reloaded := NewAt(file)
		assert.False(t, reloaded.LoggedIn())
	})
}

func TestSessionIgnoresCorruptFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0600))

	s := NewAt(file)
	assert.False(t, s.LoggedIn())
}

func TestEstablishEmptyTokenStaysLoggedOut(t *testing.T) {
	file := filepath.Join(t.TempDir(), "session.json")
	s := NewAt(file)
	require.NoError(t, s.Establish(""))
	assert.False(t, s.LoggedIn())
}
