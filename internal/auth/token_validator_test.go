package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kudoshq/kudos/internal/config"
)

func signedToken(t *testing.T, key *rsa.PrivateKey, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.StandardClaims{Subject: subject})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func publicKeyPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestSubject_VerifiedToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	validator, err := NewTokenValidator(config.Auth{PublicKey: publicKeyPEM(t, key)})
	require.NoError(t, err)

	subject, err := validator.Subject(signedToken(t, key, "user-123"))
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestSubject_WrongKeyRejected(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	validator, err := NewTokenValidator(config.Auth{PublicKey: publicKeyPEM(t, key)})
	require.NoError(t, err)

	_, err = validator.Subject(signedToken(t, otherKey, "user-123"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubject_UnverifiedModeParsesAnyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	validator, err := NewTokenValidator(config.Auth{})
	require.NoError(t, err)

	subject, err := validator.Subject(signedToken(t, key, "user-123"))
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestSubject_MissingSubjectRejected(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	validator, err := NewTokenValidator(config.Auth{})
	require.NoError(t, err)

	_, err = validator.Subject(signedToken(t, key, ""))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubject_GarbageRejected(t *testing.T) {
	validator, err := NewTokenValidator(config.Auth{})
	require.NoError(t, err)

	_, err = validator.Subject("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
