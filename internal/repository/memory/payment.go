package memory

import (
	"context"
	"sort"

	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
)

type paymentRepository struct {
	store *Store
}

func NewPaymentRepository(store *Store) payment.Repository {
	return &paymentRepository{store: store}
}

func (r *paymentRepository) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.payments[p.ProviderSessionID]; exists {
		return payment.Payment{}, payment.ErrAlreadyProcessed
	}
	r.store.payments[p.ProviderSessionID] = p
	r.store.record(ctx, func() {
		delete(r.store.payments, p.ProviderSessionID)
	})

	return p, nil
}

func (r *paymentRepository) ExistsBySessionID(ctx context.Context, providerSessionID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, exists := r.store.payments[providerSessionID]
	return exists, nil
}

func (r *paymentRepository) ListByInvitationID(ctx context.Context, invitationID string) ([]payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	payments := make([]payment.Payment, 0)
	for _, p := range r.store.payments {
		if p.InvitationID != nil && *p.InvitationID == invitationID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}
