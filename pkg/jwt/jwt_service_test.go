package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", "recipe-organizer", time.Hour, WithClock(fixedClock(now)))

	token, expiresAt, err := svc.IssueToken("5b0f6f3e-8a53-4d4c-9c2b-0f3f7c3a8e11", "admin")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5b0f6f3e-8a53-4d4c-9c2b-0f3f7c3a8e11", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
	assert.True(t, claims.IssuedAt.Equal(now))
}

func TestVerifyReportsExpiryWithoutRejecting(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	svc := NewJWTService("secret", "recipe-organizer", time.Hour, WithClock(fixedClock(past)))

	token, _, err := svc.IssueToken("user-1", "user")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "recipe-organizer", time.Hour)
	verifier := NewJWTService("secret-b", "recipe-organizer", time.Hour)

	token, _, err := issuer.IssueToken("user-1", "user")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	svc := NewJWTService("secret", "recipe-organizer", time.Hour)
	token, _, err := svc.IssueToken("user-1", "user")
	require.NoError(t, err)

	other, _, err := svc.IssueToken("user-2", "admin")
	require.NoError(t, err)

	// header and signature of the first token, payload of the second
	a := strings.Split(token, ".")
	b := strings.Split(other, ".")
	forged := a[0] + "." + b[1] + "." + a[2]

	_, err = svc.VerifyToken(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	svc := NewJWTService("secret", "recipe-organizer", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, token)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTService("secret", "recipe-organizer", time.Hour)

	claims := jwtUserClaim{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.VerifyToken(none)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.VerifyToken(hs512)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	svc := NewJWTService("secret", "recipe-organizer", time.Hour)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtUserClaim{UserID: "user-1", Role: "user"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
