package memory

import (
	"context"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
)

type rsvpRepository struct {
	store *Store
}

func NewRSVPRepository(store *Store) invitation.RSVPRepository {
	return &rsvpRepository{store: store}
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp invitation.RSVP) (invitation.RSVP, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.invitations[rsvp.InvitationID]; !ok {
		return invitation.RSVP{}, invitation.ErrInvitationNotFound
	}
	r.store.rsvps = append(r.store.rsvps, rsvp)

	r.store.record(ctx, func() {
		for i, existing := range r.store.rsvps {
			if existing.ID == rsvp.ID {
				r.store.rsvps = append(r.store.rsvps[:i], r.store.rsvps[i+1:]...)
				break
			}
		}
		if inv, ok := r.store.invitations[rsvp.InvitationID]; ok {
			inv.RSVPCount = r.store.attendingGuests(rsvp.InvitationID)
			r.store.invitations[rsvp.InvitationID] = inv
		}
	})

	return rsvp, nil
}

// ListByInvitationID returns RSVPs in insertion order.
func (r *rsvpRepository) ListByInvitationID(ctx context.Context, invitationID string) ([]invitation.RSVP, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rsvps := make([]invitation.RSVP, 0)
	for _, rsvp := range r.store.rsvps {
		if rsvp.InvitationID == invitationID {
			rsvps = append(rsvps, rsvp)
		}
	}
	return rsvps, nil
}
