package payment

import "context"

type Service interface {
	InitiateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error)
	// HandlePaymentConfirmed verifies and applies one gateway callback.
	HandlePaymentConfirmed(ctx context.Context, body []byte, signature, callbackToken string) error
}
