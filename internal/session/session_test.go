package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/warden/internal/session"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := session.NewMemoryStore()

	require.NoError(t, s.Set("a", "key", 42))

	v, ok, err := s.Get("a", "key")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	// values are scoped to the session
	_, ok, err = s.Get("b", "key")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := session.NewMemoryStore()

	require.NoError(t, s.Set("a", "key", true))
	require.NoError(t, s.Clear("a"))

	_, ok, err := s.Get("a", "key")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_RequiresSessionID(t *testing.T) {
	s := session.NewMemoryStore()

	_, _, err := s.Get("", "key")
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.ErrorIs(t, s.Set("", "key", 1), session.ErrNoSession)
	assert.ErrorIs(t, s.Clear(""), session.ErrNoSession)
}

func TestAutostart_TriState(t *testing.T) {
	s := session.NewMemoryStore()

	p, err := session.Autostart(s, "user")
	assert.NoError(t, err)
	assert.Equal(t, session.PreferenceAbsent, p)
	assert.True(t, p.Or(true))

	require.NoError(t, session.SetAutostart(s, "user", false))
	p, err = session.Autostart(s, "user")
	assert.NoError(t, err)
	assert.Equal(t, session.PreferenceFalse, p)
	assert.False(t, p.Or(true))

	require.NoError(t, session.SetAutostart(s, "user", true))
	p, err = session.Autostart(s, "user")
	assert.NoError(t, err)
	assert.Equal(t, session.PreferenceTrue, p)
	assert.True(t, p.Or(false))
}

func TestAutostart_StringValues(t *testing.T) {
	s := session.NewMemoryStore()

	tests := map[string]session.Preference{
		"true":  session.PreferenceTrue,
		"yes":   session.PreferenceTrue,
		"1":     session.PreferenceTrue,
		"false": session.PreferenceFalse,
		"no":    session.PreferenceFalse,
	}

	for value, expected := range tests {
		t.Run(value, func(t *testing.T) {
			require.NoError(t, s.Set("user", session.KeyAutostart, value))

			p, err := session.Autostart(s, "user")
			assert.NoError(t, err)
			assert.Equal(t, expected, p)
		})
	}
}

func TestAutostart_InvalidType(t *testing.T) {
	s := session.NewMemoryStore()
	require.NoError(t, s.Set("user", session.KeyAutostart, 3.14))

	p, err := session.Autostart(s, "user")
	assert.Error(t, err)
	assert.Equal(t, session.PreferenceAbsent, p)
}
