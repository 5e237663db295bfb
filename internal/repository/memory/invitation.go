package memory

import (
	"context"
	"sort"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
)

type invitationRepository struct {
	store *Store
}

func NewInvitationRepository(store *Store) invitation.InvitationRepository {
	return &invitationRepository{store: store}
}

func (r *invitationRepository) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if inv.Photos == nil {
		inv.Photos = []string{}
	}
	inv.UpdatedAt = inv.CreatedAt

	prev, existed := r.store.invitations[inv.ID]
	r.store.invitations[inv.ID] = cloneInvitation(inv)
	r.store.record(ctx, func() {
		if existed {
			r.store.invitations[inv.ID] = prev
			return
		}
		delete(r.store.invitations, inv.ID)
	})

	return cloneInvitation(inv), nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	inv, ok := r.store.invitations[id]
	if !ok {
		return invitation.Invitation{}, invitation.ErrInvitationNotFound
	}
	return cloneInvitation(inv), nil
}

func (r *invitationRepository) MarkPaid(ctx context.Context, id string, qrCodeURL string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	inv, ok := r.store.invitations[id]
	if !ok {
		return invitation.ErrInvitationNotFound
	}
	prevStatus, prevQRCode := inv.Status, inv.QRCodeURL

	inv.Status = invitation.StatusPaid
	inv.QRCodeURL = &qrCodeURL
	inv.UpdatedAt = time.Now()
	r.store.invitations[id] = inv

	r.store.record(ctx, func() {
		if cur, ok := r.store.invitations[id]; ok {
			cur.Status, cur.QRCodeURL = prevStatus, prevQRCode
			r.store.invitations[id] = cur
		}
	})

	return nil
}

func (r *invitationRepository) IncrementViewCount(ctx context.Context, id string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	inv, ok := r.store.invitations[id]
	if !ok {
		return 0, invitation.ErrInvitationNotFound
	}
	inv.ViewCount++
	r.store.invitations[id] = inv

	r.store.record(ctx, func() {
		if cur, ok := r.store.invitations[id]; ok {
			cur.ViewCount--
			r.store.invitations[id] = cur
		}
	})

	return inv.ViewCount, nil
}

// RefreshRSVPCount records no inverse: the count is derived, and reverting
// an RSVP insert recomputes it.
func (r *invitationRepository) RefreshRSVPCount(ctx context.Context, id string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	inv, ok := r.store.invitations[id]
	if !ok {
		return 0, invitation.ErrInvitationNotFound
	}

	inv.RSVPCount = r.store.attendingGuests(id)
	inv.UpdatedAt = time.Now()
	r.store.invitations[id] = inv

	return inv.RSVPCount, nil
}

func (r *invitationRepository) DeleteExpired(ctx context.Context, now time.Time) ([]invitation.PurgedInvitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed := make(map[string]invitation.Invitation)
	for id, inv := range r.store.invitations {
		if inv.IsExpired(now) {
			removed[id] = inv
			delete(r.store.invitations, id)
		}
	}
	if len(removed) == 0 {
		return []invitation.PurgedInvitation{}, nil
	}

	var removedRSVPs []invitation.RSVP
	kept := make([]invitation.RSVP, 0, len(r.store.rsvps))
	for _, rsvp := range r.store.rsvps {
		if _, gone := removed[rsvp.InvitationID]; gone {
			removedRSVPs = append(removedRSVPs, rsvp)
			continue
		}
		kept = append(kept, rsvp)
	}
	r.store.rsvps = kept

	unlinked := make(map[string]string)
	for key, p := range r.store.payments {
		if p.InvitationID == nil {
			continue
		}
		if _, gone := removed[*p.InvitationID]; gone {
			unlinked[key] = *p.InvitationID
			p.InvitationID = nil
			r.store.payments[key] = p
		}
	}

	r.store.record(ctx, func() {
		for id, inv := range removed {
			if _, taken := r.store.invitations[id]; !taken {
				r.store.invitations[id] = inv
			}
		}
		r.store.rsvps = append(r.store.rsvps, removedRSVPs...)
		sort.SliceStable(r.store.rsvps, func(i, j int) bool {
			return r.store.rsvps[i].CreatedAt.Before(r.store.rsvps[j].CreatedAt)
		})
		for key, invitationID := range unlinked {
			if p, ok := r.store.payments[key]; ok && p.InvitationID == nil {
				id := invitationID
				p.InvitationID = &id
				r.store.payments[key] = p
			}
		}
	})

	purged := make([]invitation.PurgedInvitation, 0, len(removed))
	for id, inv := range removed {
		purged = append(purged, invitation.PurgedInvitation{
			ID:     id,
			Photos: append([]string(nil), inv.Photos...),
		})
	}
	sort.Slice(purged, func(i, j int) bool { return purged[i].ID < purged[j].ID })

	return purged, nil
}
