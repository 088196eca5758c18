package encrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "0123456789abcdef0123456789abcdef"

func TestRoundTrip(t *testing.T) {
	sealed, err := AESEncrypt(key, "0911234567")
	require.NoError(t, err)
	assert.NotEqual(t, "0911234567", sealed)

	plain, err := AESDecrypt(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "0911234567", plain)
}

func TestDecryptWrongKey(t *testing.T) {
	sealed, err := AESEncrypt(key, "payload")
	require.NoError(t, err)

	_, err = AESDecrypt("ffffffffffffffffffffffffffffffff", sealed)
	assert.Error(t, err)
}

func TestBadKeyLength(t *testing.T) {
	_, err := AESEncrypt("short", "payload")
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := AESDecrypt(key, "not base64 at all!!!")
	assert.Error(t, err)
}
