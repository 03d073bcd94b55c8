package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEMs(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM
}

func TestFileKeySource(t *testing.T) {
	privPEM, pubPEM := testKeyPEMs(t)
	dir := t.TempDir()
	privPath := filepath.Join(dir, "jwt_rsa.key")
	pubPath := filepath.Join(dir, "jwt_rsa.pub")
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0644))

	svc, err := NewTokenService(
		FileKeySource{PrivateKeyPath: privPath, PublicKeyPath: pubPath},
		testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("alice", models.RoleParent, 0, "Alice")
	require.NoError(t, err)
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestFileKeySource_MissingFile(t *testing.T) {
	_, err := NewTokenService(
		FileKeySource{PrivateKeyPath: "/does/not/exist.key", PublicKeyPath: "/does/not/exist.pub"},
		testIssuer, testAudience, time.Hour)
	assert.Error(t, err)
}

func TestEnvKeySource(t *testing.T) {
	privPEM, pubPEM := testKeyPEMs(t)
	t.Setenv("TEST_JWT_PRIVATE_KEY", string(privPEM))
	t.Setenv("TEST_JWT_PUBLIC_KEY", string(pubPEM))

	svc, err := NewTokenService(
		EnvKeySource{PrivateKeyVar: "TEST_JWT_PRIVATE_KEY", PublicKeyVar: "TEST_JWT_PUBLIC_KEY"},
		testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("alice", models.RoleChild, 0, "")
	require.NoError(t, err)
	_, err = svc.Validate(token)
	assert.NoError(t, err)
}

func TestEnvKeySource_Unset(t *testing.T) {
	src := EnvKeySource{PrivateKeyVar: "TEST_JWT_UNSET_PRIV", PublicKeyVar: "TEST_JWT_UNSET_PUB"}
	_, err := src.PrivateKeyPEM()
	assert.Error(t, err)
	_, err = src.PublicKeyPEM()
	assert.Error(t, err)
}
