package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, exp, err := tm.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestTokenManager_DistinctIssueTimes(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	now := time.Now()

	tm.now = fixedClock(now.Add(-2 * time.Second))
	first, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	tm.now = fixedClock(now)
	second, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, token := range []string{first, second} {
		subject, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", subject)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute)
	tm.now = fixedClock(time.Now().Add(-2 * time.Hour))

	token, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	valid, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	otherSubject, _, err := tm.Issue("user-2")
	require.NoError(t, err)
	validParts := strings.Split(valid, ".")
	otherParts := strings.Split(otherSubject, ".")
	tampered := otherParts[0] + "." + otherParts[1] + "." + validParts[2]

	other := NewTokenManager([]byte("other-secret"), time.Hour)
	forged, _, err := other.Issue("user-1")
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).SignedString(testSecret)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "tampered payload", token: tampered},
		{name: "wrong secret", token: forged},
		{name: "alg none", token: none},
		{name: "unexpected algorithm", token: hs512},
		{name: "no expiry", token: noExpiry},
		{name: "no subject", token: noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenManager_Defaults(t *testing.T) {
	assert.Equal(t, DefaultTokenTTL, NewTokenManager(testSecret, 0).TTL())

	_, _, err := NewTokenManager(testSecret, time.Hour).Issue("")
	assert.Error(t, err)
}
