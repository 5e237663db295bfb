package payment

import "errors"

var (
	ErrPriceNotConfigured = errors.New("price is not configured for plan")
	ErrGatewayFailure     = errors.New("payment gateway request failed")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMalformedEvent     = errors.New("malformed webhook event")
	ErrMissingReference   = errors.New("webhook event has no invitation reference")
	ErrAlreadyProcessed   = errors.New("payment session already processed")
	ErrEventIgnored       = errors.New("webhook event does not confirm a payment")

	ErrInvitationAlreadyPaid = errors.New("invitation is already paid")
)
