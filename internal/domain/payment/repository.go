package payment

import "context"

type Repository interface {
	// Create returns ErrAlreadyProcessed when the provider session id is taken.
	Create(ctx context.Context, p Payment) (Payment, error)
	ExistsBySessionID(ctx context.Context, providerSessionID string) (bool, error)
	ListByInvitationID(ctx context.Context, invitationID string) ([]Payment, error)
}
