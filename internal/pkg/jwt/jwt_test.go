package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_HostTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt")

	token, err := svc.GenerateHostToken("abc123", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	id, err := svc.InvitationIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt")

	token, err := svc.GenerateHostToken("abc123", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(svc.JWTAuth(), token)
	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	token, err := NewJWTService("one").GenerateHostToken("abc123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(NewJWTService("two").JWTAuth(), token)
	assert.Error(t, err)
}

func TestJWTService_InvitationIDFromClaims(t *testing.T) {
	svc := NewJWTService("secret")

	_, err := svc.InvitationIDFromClaims(map[string]interface{}{"type": "access", "invitation_id": "abc"})
	assert.ErrorIs(t, err, ErrInvalidHostToken)

	_, err = svc.InvitationIDFromClaims(map[string]interface{}{"type": "host"})
	assert.ErrorIs(t, err, ErrInvalidHostToken)
}
