package middleware

import (
	"context"
	"net/http"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/handler/http/response"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type invitationIDKey struct{}

// HostRequired admits requests carrying a valid host token, as verified
// by jwtauth.Verifier, and stores the invitation id it grants access to.
func HostRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, invitation.ErrInvalidHostToken)
				return
			}

			invitationID, err := jwtService.InvitationIDFromClaims(claims)
			if err != nil {
				response.HandleError(w, invitation.ErrInvalidHostToken)
				return
			}

			ctx := context.WithValue(r.Context(), invitationIDKey{}, invitationID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// InvitationIDFromContext returns the invitation id set by HostRequired.
func InvitationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invitationIDKey{}).(string)
	return id, ok && id != ""
}
