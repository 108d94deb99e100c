package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewCipher(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		c, err := NewCipher(testKey)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("short key rejected", func(t *testing.T) {
		_, err := NewCipher("abcdef")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("non-hex key rejected", func(t *testing.T) {
		_, err := NewCipher(strings.Repeat("zz", 32))
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestEncryptDecrypt(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	sealed, err := c.Encrypt("AIzaSyExampleKey1234")
	require.NoError(t, err)
	assert.Len(t, strings.Split(sealed, ":"), 3)

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "AIzaSyExampleKey1234", plain)

	t.Run("tampered ciphertext rejected", func(t *testing.T) {
		parts := strings.Split(sealed, ":")
		tampered := parts[0] + ":" + parts[1] + ":" + strings.Repeat("00", len(parts[2])/2)
		_, err := c.Decrypt(tampered)
		assert.Error(t, err)
	})

	t.Run("malformed input rejected", func(t *testing.T) {
		_, err := c.Decrypt("not-an-encrypted-string")
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "AIza...1234", MaskAPIKey("AIzaSyExampleKey1234"))
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "****", MaskAPIKey("12345678"))
}
