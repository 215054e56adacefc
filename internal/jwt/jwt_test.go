package jwt

import (
	"path/filepath"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func loadTestKeys() {
	publicKey = loadPublicKey(filepath.Join("testdata", "public.pem"))
	privateKey = loadPrivateKey(filepath.Join("testdata", "private.key"))
}

func TestSignAndValidNickname(t *testing.T) {
	loadTestKeys()

	sign, err := Sign("alice")
	assert.NoError(t, err)

	nickname, err := ValidNickname(sign)
	assert.NoError(t, err)
	assert.Equal(t, "alice", nickname)
}

func TestValidNickname_InvalidAudience(t *testing.T) {
	loadTestKeys()

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{"different-audience"},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(time.Now()),
		Issuer:   Issuer,
		Subject:  "alice",
	})

	signedToken, err := token.SignedString(privateKey)
	if err != nil {
		t.Error(err)
		return
	}

	nickname, err := ValidNickname(signedToken)
	assert.EqualError(t, err, "invalid audience")
	assert.Equal(t, "", nickname)
}

func TestValidNickname_InvalidIssuer(t *testing.T) {
	loadTestKeys()

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.RegisteredClaims{
		Audience: jwtgo.ClaimStrings{Audience},
		ID:       uuid.New().String(),
		IssuedAt: jwtgo.NewNumericDate(time.Now()),
		Issuer:   "invalid-issuer",
		Subject:  "alice",
	})

	signedToken, err := token.SignedString(privateKey)
	if err != nil {
		t.Error(err)
		return
	}

	nickname, err := ValidNickname(signedToken)
	assert.EqualError(t, err, "invalid issuer")
	assert.Equal(t, "", nickname)
}

func TestValidNickname_Expired(t *testing.T) {
	loadTestKeys()

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, jwtgo.RegisteredClaims{
		Audience:  jwtgo.ClaimStrings{Audience},
		ID:        uuid.New().String(),
		IssuedAt:  jwtgo.NewNumericDate(time.Now()),
		Issuer:    Issuer,
		ExpiresAt: jwtgo.NewNumericDate(time.Now().Add(time.Hour * -1)),
		Subject:   "alice",
	})

	signedToken, err := token.SignedString(privateKey)
	if err != nil {
		t.Error(err)
		return
	}

	nickname, err := ValidNickname(signedToken)
	if err != nil {
		assert.Regexp(t, "token is expired", err.Error())
	} else {
		t.Error("expected an error")
	}
	assert.Equal(t, "", nickname)
}
