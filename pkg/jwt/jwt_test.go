package jwt

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "segredo-de-teste"

func TestGenerateParse(t *testing.T) {
	token, err := Generate(secret, "nfe-emissor", "user-1", "company-1", 5)
	require.NoError(t, err)

	claims, err := Parse(secret, "nfe-emissor", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "company-1", claims.CompanyID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := Generate(secret, "nfe-emissor", "user-1", "company-1", 5)
	require.NoError(t, err)

	_, err = Parse("otro-secret", "nfe-emissor", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse(secret, "otro-emisor", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := Generate(secret, "nfe-emissor", "user-1", "company-1", -1)
	require.NoError(t, err)
	_, err = Parse(secret, "nfe-emissor", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "x"}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Parse(secret, "", none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "i", "u", "c", 1)
	assert.Error(t, err)
	_, err = Parse("", "i", "x")
	assert.Error(t, err)
}
