package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/evermoment/evermoment-backend-go/internal/domain/upload"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/jwt"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Invitation domain errors
	case errors.Is(err, invitation.ErrInvitationNotFound):
		NotFound(w, "Invitation not found")
	case errors.Is(err, invitation.ErrInvitationNotReady):
		NotFound(w, "Invitation not found")
	case errors.Is(err, invitation.ErrInvitationExpired):
		Gone(w, "Invitation has expired")
	case errors.Is(err, invitation.ErrInvalidHostToken), errors.Is(err, jwt.ErrInvalidHostToken):
		Unauthorized(w, "Invalid host token")

	// Payment domain errors
	case errors.Is(err, payment.ErrInvalidSignature):
		InvalidSignature(w)
	case errors.Is(err, payment.ErrInvitationAlreadyPaid):
		Conflict(w, "Invitation is already paid")
	case errors.Is(err, payment.ErrPriceNotConfigured):
		slog.Error("Checkout price is not configured", "error", err)
		ConfigurationError(w, "Payment is not configured for this plan")
	case errors.Is(err, payment.ErrGatewayFailure):
		GatewayError(w, "Payment provider is unavailable, please try again")

	// Upload errors
	case errors.Is(err, upload.ErrInvalidFileType):
		BadRequest(w, "Only image files are allowed", nil)
	case errors.Is(err, upload.ErrFileTooLarge):
		BadRequest(w, "File size must be 5MB or less", nil)
	case errors.Is(err, upload.ErrEmptyFile):
		BadRequest(w, "File is empty", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
