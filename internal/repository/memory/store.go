// Package memory is a process-local store for development and tests. Data
// is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
)

type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	invitations map[string]invitation.Invitation
	rsvps       []invitation.RSVP
	payments    map[string]payment.Payment // keyed by provider session id
}

func NewStore() *Store {
	return &Store{
		invitations: make(map[string]invitation.Invitation),
		payments:    make(map[string]payment.Payment),
	}
}

type txKey struct{}

// txLog holds the inverse of every write made inside one transaction.
type txLog struct {
	undo []func()
}

// record registers the inverse of a write when ctx belongs to a
// transaction. Callers hold s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*txLog); ok {
		log.undo = append(log.undo, undo)
	}
}

// WithinTransaction serialises transactions. When fn fails or panics only
// the writes fn made are reverted; writes from outside the transaction are
// kept. A ctx that already carries a transaction joins it.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txLog); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	committed := false
	defer func() {
		if !committed {
			s.rollback(log)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) rollback(log *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(log.undo) - 1; i >= 0; i-- {
		log.undo[i]()
	}
}

// attendingGuests sums guests over the attending RSVPs of an invitation.
// Callers hold s.mu.
func (s *Store) attendingGuests(invitationID string) int {
	total := 0
	for _, rsvp := range s.rsvps {
		if rsvp.InvitationID == invitationID && rsvp.Attending {
			total += rsvp.GuestsCount
		}
	}
	return total
}

func cloneInvitation(inv invitation.Invitation) invitation.Invitation {
	inv.Photos = append([]string(nil), inv.Photos...)
	return inv
}
