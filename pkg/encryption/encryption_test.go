package encryption

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptorRejectsEmptySecret(t *testing.T) {
	enc, err := NewEncryptor("")
	assert.Error(t, err)
	assert.Nil(t, enc)

	enc, err = NewEncryptor("connector-credential-secret")
	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestCredentialBlobRoundtrip(t *testing.T) {
	enc, err := NewEncryptor("connector-credential-secret")
	require.NoError(t, err)

	creds := map[string]string{
		"api_key":  "steam-key-8A3F",
		"steam_id": "76561198000000000",
	}
	blob, err := json.Marshal(creds)
	require.NoError(t, err)

	sealed, err := enc.Encrypt(string(blob))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "steam-key-8A3F")

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(opened), &decoded))
	assert.Equal(t, creds, decoded)
}

func TestEmptyCredentialsStayEmpty(t *testing.T) {
	enc, err := NewEncryptor("connector-credential-secret")
	require.NoError(t, err)

	sealed, err := enc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	opened, err := enc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, opened)
}

func TestNoncesMakeCiphertextsUnique(t *testing.T) {
	enc, err := NewEncryptor("connector-credential-secret")
	require.NoError(t, err)

	first, err := enc.Encrypt(`{"api_key":"k"}`)
	require.NoError(t, err)
	second, err := enc.Encrypt(`{"api_key":"k"}`)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	opened, err := enc.Decrypt(second)
	require.NoError(t, err)
	assert.Equal(t, `{"api_key":"k"}`, opened)
}

func TestDecryptRejectsBadInput(t *testing.T) {
	enc, err := NewEncryptor("connector-credential-secret")
	require.NoError(t, err)

	for name, ciphertext := range map[string]string{
		"invalid base64": "not-valid-base64!@#$",
		"truncated":      "dGVzdA==",
		"tampered":       "dGVzdHRlc3R0ZXN0dGVzdHRlc3R0ZXN0dGVzdHRlc3Q=",
	} {
		t.Run(name, func(t *testing.T) {
			opened, err := enc.Decrypt(ciphertext)
			assert.Error(t, err)
			assert.Empty(t, opened)
		})
	}
}

func TestWrongKeyFailsToDecrypt(t *testing.T) {
	enc, err := NewEncryptor("the-deployed-secret")
	require.NoError(t, err)
	other, err := NewEncryptor("a-rotated-secret")
	require.NoError(t, err)

	sealed, err := enc.Encrypt(`{"api_key":"k"}`)
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.Error(t, err)
}
