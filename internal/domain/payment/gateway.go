package payment

import "context"

// Gateway opens hosted checkout sessions at the payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)
}

// SignatureVerifier authenticates webhook bodies.
type SignatureVerifier interface {
	Verify(body []byte, signature, callbackToken string) bool
}
