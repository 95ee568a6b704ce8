// Package crypto provides the cryptographic primitives binding the SPRESSO
// protocol together: AES-GCM sealing of the Tag and EncryptedIA envelopes,
// and PKCS#1 v1.5/SHA-256 RSA signing of the Identity Assertion.
//
// This is a direct port of spresso/utils/crypto.py onto Go's standard
// library crypto packages, which are the idiomatic Go equivalent of the
// Python `cryptography` package the original relies on; no third-party
// dependency in the example corpus improves on crypto/aes, crypto/cipher,
// crypto/rsa and crypto/x509 for this purpose.
package crypto

import (
	stdcrypto "crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// ErrInvalidTag is returned by AEADOpen when the authentication tag does
// not match the ciphertext, key, iv and associated data supplied.
var ErrInvalidTag = errors.New("crypto: invalid authentication tag")

// ErrInvalidSignature is returned by RSAVerify when the signature does not
// verify against the given data and public key.
var ErrInvalidSignature = errors.New("crypto: invalid signature")

// Nonce returns n cryptographically random bytes.
func Nonce(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("crypto: generating nonce: %w", err)
	}
	return b, nil
}

// AEADSeal encrypts plaintext under AES-GCM with the given 32-byte key and
// 12-byte IV, authenticating associatedData without encrypting it. The
// returned slice is ciphertext with the 16-byte authentication tag
// appended, matching the wire layout expected by TagEnvelope/EncryptedIA.
func AEADSeal(key, iv, plaintext, associatedData []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, fmt.Errorf("crypto: iv must be %d bytes, got %d", aead.NonceSize(), len(iv))
	}
	return aead.Seal(nil, iv, plaintext, associatedData), nil
}

// AEADOpen decrypts ciphertext produced by AEADSeal (ciphertext with the
// 16-byte tag appended). It returns ErrInvalidTag if authentication fails.
func AEADOpen(key, iv, ciphertextAndTag, associatedData []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, fmt.Errorf("crypto: iv must be %d bytes, got %d", aead.NonceSize(), len(iv))
	}
	plaintext, err := aead.Open(nil, iv, ciphertextAndTag, associatedData)
	if err != nil {
		return nil, ErrInvalidTag
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return cipher.NewGCM(block)
}

// RSASign signs data with the PEM-encoded RSA private key using PKCS#1 v1.5
// padding over a SHA-256 digest.
func RSASign(privateKeyPEM, data []byte) ([]byte, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, stdcrypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: signing failed: %w", err)
	}
	return sig, nil
}

// RSAVerify verifies signature over data against the PEM-encoded RSA public
// key, using PKCS#1 v1.5 padding over a SHA-256 digest. It returns
// ErrInvalidSignature if verification fails.
func RSAVerify(publicKeyPEM, signature, data []byte) error {
	key, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(key, stdcrypto.SHA256, digest[:], signature); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("crypto: no PEM block found in private key")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("crypto: parsing private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("crypto: private key is not an RSA key")
	}
	return rsaKey, nil
}

func parsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("crypto: no PEM block found in public key")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("crypto: parsing public key: %w", err)
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("crypto: public key is not an RSA key")
	}
	return rsaKey, nil
}
