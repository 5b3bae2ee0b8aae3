package utils

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-1234567890abcd", "sk-1*********abcd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskSensitiveString(tt.in), tt.in)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "info")
	l.Debug("hidden")
	l.Info("shown", "organizationID", "org-1")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"organizationID":"org-1"`)
}

func TestFieldCipher_RoundTrip(t *testing.T) {
	c, err := NewFieldCipher("test-secret")
	require.NoError(t, err)
	require.NotNil(t, c)

	enc, err := c.Encrypt("Please call me tomorrow")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, encPrefix))
	assert.NotContains(t, enc, "tomorrow")

	plain, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "Please call me tomorrow", plain)
}

func TestFieldCipher_NilPassesThrough(t *testing.T) {
	c, err := NewFieldCipher("  ")
	require.NoError(t, err)
	assert.Nil(t, c)

	enc, err := c.Encrypt("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", enc)

	plain, err := c.Decrypt("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", plain)
}

func TestFieldCipher_WrongKey(t *testing.T) {
	a, _ := NewFieldCipher("key-a")
	b, _ := NewFieldCipher("key-b")
	enc, err := a.Encrypt("secret")
	require.NoError(t, err)

	_, err = b.Decrypt(enc)
	assert.ErrorIs(t, err, ErrDecrypt)

	var none *FieldCipher
	_, err = none.Decrypt(enc)
	assert.ErrorIs(t, err, ErrDecrypt)
}
