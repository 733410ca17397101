package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/watchpartyhq/watchparty/internal/testutil"
	"github.com/watchpartyhq/watchparty/internal/types"
)

func Test_hashPassword_verifyPassword(t *testing.T) {
	hash, err := hashPassword("s3cret")
	assert.NoError(t, err, "expected no error hashing password")
	assert.NotEqual(t, "s3cret", hash, "expected hash to differ from plaintext")

	assert.True(t, verifyPassword(hash, "s3cret"), "expected correct password to verify")
	assert.False(t, verifyPassword(hash, "wrong"), "expected wrong password to fail")
}

func Test_jwtRoundTrip(t *testing.T) {
	app := &WatchPartyApp{
		log:        testutil.TestLogger(t),
		signingKey: []byte("test-signing-key"),
	}

	token, err := app.createJwtForSession(types.User{Id: 42}, time.Hour)
	assert.NoError(t, err, "expected no error creating token")

	userId, err := app.extractUserIdFromToken(token)
	assert.NoError(t, err, "expected no error extracting user id")
	assert.Equal(t, 42, userId, "expected user id claim to round-trip")
}

func Test_extractUserIdFromToken_invalid(t *testing.T) {
	app := &WatchPartyApp{
		log:        testutil.TestLogger(t),
		signingKey: []byte("test-signing-key"),
	}

	t.Run("garbage token", func(t *testing.T) {
		_, err := app.extractUserIdFromToken("not-a-token")
		assert.Error(t, err, "expected error for malformed token")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := &WatchPartyApp{
			log:        testutil.TestLogger(t),
			signingKey: []byte("a-different-key"),
		}
		token, err := other.createJwtForSession(types.User{Id: 42}, time.Hour)
		assert.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err, "expected error for token signed with another key")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := app.createJwtForSession(types.User{Id: 42}, -time.Hour)
		assert.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err, "expected error for expired token")
	})
}

func Test_createJwtCookie(t *testing.T) {
	cookie := createJwtCookie("sometoken", time.Hour)
	assert.Equal(t, tokenCookieKey, cookie.Name)
	assert.Equal(t, "sometoken", cookie.Value)
	assert.True(t, cookie.HttpOnly, "expected cookie to be http-only")
	assert.Equal(t, "/", cookie.Path)
}
