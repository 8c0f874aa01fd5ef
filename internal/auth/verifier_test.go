package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	v, err := NewVerifier("hmac", "s3cret")
	require.NoError(t, err)
	tok, err := v.Sign("ops", "Admin", time.Hour)
	require.NoError(t, err)

	p, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{Subject: "ops", Role: "admin"}, p)
}

func TestVerifyRejects(t *testing.T) {
	v, err := NewVerifier("hmac", "s3cret")
	require.NoError(t, err)
	other, err := NewVerifier("hmac", "other")
	require.NoError(t, err)

	forged, err := other.Sign("ops", "admin", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(forged)
	assert.ErrorIs(t, err, ErrSignature)

	_, err = v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)

	noRole, err := v.Sign("ops", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(noRole)
	assert.ErrorIs(t, err, ErrMissingRole)

	tok, err := v.Sign("ops", "admin", time.Minute)
	require.NoError(t, err)
	v.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)

	segs := strings.Split(tok, ".")
	_, err = v.Verify("eyJhbGciOiJub25lIn0." + segs[1] + "." + segs[2])
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNewVerifierModes(t *testing.T) {
	v, err := NewVerifier("", "")
	require.NoError(t, err)
	assert.Equal(t, ModeDev, v.Mode)

	_, err = NewVerifier("hmac", "")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = NewVerifier("jwks", "x")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
