package crypto_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaplace/spresso/crypto"
)

func TestAEADRoundTrip(t *testing.T) {
	key, err := crypto.Nonce(32)
	require.NoError(t, err)
	iv, err := crypto.Nonce(12)
	require.NoError(t, err)

	plaintext := []byte(`{"rp_origin":"http://rp.example","rp_nonce":"abc"}`)

	ciphertext, err := crypto.AEADSeal(key, iv, plaintext, nil)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := crypto.AEADOpen(key, iv, ciphertext, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAEADOpenInvalidTag(t *testing.T) {
	key, _ := crypto.Nonce(32)
	iv, _ := crypto.Nonce(12)
	ciphertext, err := crypto.AEADSeal(key, iv, []byte("hello"), nil)
	require.NoError(t, err)

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0xFF

	_, err = crypto.AEADOpen(key, iv, tampered, nil)
	assert.ErrorIs(t, err, crypto.ErrInvalidTag)
}

func TestRSASignVerifyRoundTrip(t *testing.T) {
	privPEM, pubPEM := generateTestKeyPair(t)

	data := []byte(`{"email":"foo@idp.example","forwarder_domain":"fwd.example","tag":"tag-envelope-json"}`)

	sig, err := crypto.RSASign(privPEM, data)
	require.NoError(t, err)

	err = crypto.RSAVerify(pubPEM, sig, data)
	assert.NoError(t, err)
}

func TestRSAVerifyRejectsTamperedData(t *testing.T) {
	privPEM, pubPEM := generateTestKeyPair(t)

	sig, err := crypto.RSASign(privPEM, []byte("original"))
	require.NoError(t, err)

	err = crypto.RSAVerify(pubPEM, sig, []byte("tampered"))
	assert.ErrorIs(t, err, crypto.ErrInvalidSignature)
}

func TestNonceIsDistinct(t *testing.T) {
	a, err := crypto.Nonce(16)
	require.NoError(t, err)
	b, err := crypto.Nonce(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func generateTestKeyPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privDER := x509.MarshalPKCS1PrivateKey(key)
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privDER})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return privPEM, pubPEM
}
