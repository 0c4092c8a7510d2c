package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestSessionRoundTrip(t *testing.T) {
	tok, err := SignSession("sid-1", secret, time.Now())
	require.NoError(t, err)

	sid, err := SessionFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)
}

func TestSessionFromToken_Rejects(t *testing.T) {
	tok, err := SignSession("sid-1", secret, time.Now())
	require.NoError(t, err)

	_, err = SessionFromToken(tok, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := SignSession("sid-1", secret, time.Now().Add(-2*SessionTTL))
	require.NoError(t, err)
	_, err = SessionFromToken(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = SessionFromToken("garbage", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: issuer}})
	s, err := none.SignedString(secret)
	require.NoError(t, err)
	_, err = SessionFromToken(s, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := CreateCookie(SessionCookie, "v", "/", exp, true)
	assert.Equal(t, "session", c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, exp, c.Expires)
}
