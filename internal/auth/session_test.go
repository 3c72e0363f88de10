package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	Init()

	connID := uuid.New().String()
	token, err := CreateSessionToken(connID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, connID, sub)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	Init()

	_, err := VerifySessionToken("not.a.token")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	Init()
	token, err := CreateSessionToken(uuid.New().String())
	require.NoError(t, err)

	// Rotating the key pair invalidates previously issued tokens.
	Init()
	_, err = VerifySessionToken(token)
	assert.Error(t, err)
}
