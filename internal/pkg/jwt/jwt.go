package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeHost = "host"

var ErrInvalidHostToken = errors.New("invalid host token")

// Service issues the host tokens that unlock the draft preview and guest list.
type Service interface {
	GenerateHostToken(invitationID string, expiresAt time.Time) (string, error)
	InvitationIDFromClaims(claims map[string]interface{}) (string, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateHostToken returns a token valid until the invitation expires.
func (j *JWTService) GenerateHostToken(invitationID string, expiresAt time.Time) (string, error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"invitation_id": invitationID,
		"type":          tokenTypeHost,
		"iat":           time.Now().Unix(),
		"exp":           expiresAt.Unix(),
	})
	return tokenString, err
}

// InvitationIDFromClaims checks the token type and extracts the invitation id.
func (j *JWTService) InvitationIDFromClaims(claims map[string]interface{}) (string, error) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != tokenTypeHost {
		return "", ErrInvalidHostToken
	}

	invitationID, ok := claims["invitation_id"].(string)
	if !ok || invitationID == "" {
		return "", ErrInvalidHostToken
	}

	return invitationID, nil
}
