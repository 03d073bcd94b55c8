package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/kidchores/kidchores-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "Kid Chore Tool"
	testAudience = "Kid Chore Tool Users"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, time.Hour)

	token, err := svc.Issue("bob", models.RoleChild, 0, "Bob")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Equal(t, models.RoleChild, claims.Role)
	assert.Equal(t, "Bob", claims.FirstName)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestValidate_Expired(t *testing.T) {
	// A service whose default TTL is negative issues already-dead tokens.
	svc := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, -time.Minute)

	token, err := svc.Issue("bob", models.RoleChild, 0, "")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_WrongKey(t *testing.T) {
	signer := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, time.Hour)
	verifier := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, time.Hour)

	token, err := signer.Issue("bob", models.RoleChild, 0, "")
	require.NoError(t, err)

	claims, err := verifier.Validate(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestValidate_TamperedSignature(t *testing.T) {
	svc := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, time.Hour)

	token, err := svc.Issue("bob", models.RoleChild, 0, "")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := svc.Validate(tampered)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestValidate_TamperedPayload(t *testing.T) {
	svc := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, time.Hour)

	token, err := svc.Issue("bob", models.RoleChild, 0, "")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	// Swapping the payload for another one keeps the shape but breaks the
	// signature over it.
	other, err := svc.Issue("eve", models.RoleParent, 0, "")
	require.NoError(t, err)
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	claims, err := svc.Validate(forged)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestValidate_IssuerAndAudience(t *testing.T) {
	key := testKey(t)
	signer := NewTokenServiceFromKeys(key, "someone else", testAudience, time.Hour)
	verifier := NewTokenServiceFromKeys(key, testIssuer, testAudience, time.Hour)

	token, err := signer.Issue("bob", models.RoleChild, 0, "")
	require.NoError(t, err)
	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrTokenIssuer)

	signer = NewTokenServiceFromKeys(key, testIssuer, "other app", time.Hour)
	token, err = signer.Issue("bob", models.RoleChild, 0, "")
	require.NoError(t, err)
	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrTokenAudience)
}

func TestValidate_Malformed(t *testing.T) {
	svc := NewTokenServiceFromKeys(testKey(t), testIssuer, testAudience, time.Hour)

	for _, token := range []string{"", "not.a.jwt", "garbage"} {
		claims, err := svc.Validate(token)
		assert.Nil(t, claims, "token %q", token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}
