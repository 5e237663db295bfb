package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	store       *Store
	invitations invitation.InvitationRepository
	rsvps       invitation.RSVPRepository
	payments    payment.Repository
}

func newRepos() repos {
	store := NewStore()
	return repos{
		store:       store,
		invitations: NewInvitationRepository(store),
		rsvps:       NewRSVPRepository(store),
		payments:    NewPaymentRepository(store),
	}
}

func newDraft(id string, eventDate time.Time) invitation.Invitation {
	return invitation.Invitation{
		ID:        id,
		EventType: invitation.EventTypeBirthday,
		PlanType:  invitation.PlanTypeBasic,
		Title:     "Aniversário da Clara",
		HostName1: "Clara",
		EventDate: eventDate,
		Email:     "clara@example.com",
		Photos:    []string{"https://cdn.example.com/clara.jpg"},
		Status:    invitation.StatusDraft,
		ExpiresAt: invitation.ExpiresAtFor(eventDate),
		CreatedAt: time.Now().UTC(),
	}
}

func TestWithinTransaction_RollbackKeepsOutsideWrites(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	eventDate := time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := r.invitations.Create(ctx, newDraft("paid", eventDate))
	require.NoError(t, err)
	require.NoError(t, r.invitations.MarkPaid(ctx, "paid", "qr"))

	boom := errors.New("boom")
	err = r.store.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := r.payments.Create(txCtx, payment.Payment{
			ID:                "p1",
			ProviderSessionID: "sess-1",
			Amount:            decimal.NewFromInt(49000),
			Currency:          "IDR",
			Status:            payment.StatusSucceeded,
		})
		require.NoError(t, err)

		// Writes from other requests while the transaction is open
		_, err = r.invitations.Create(ctx, newDraft("draft-from-other-request", eventDate))
		require.NoError(t, err)
		_, err = r.invitations.IncrementViewCount(ctx, "paid")
		require.NoError(t, err)

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = r.invitations.GetByID(ctx, "draft-from-other-request")
	assert.NoError(t, err)

	paid, err := r.invitations.GetByID(ctx, "paid")
	require.NoError(t, err)
	assert.Equal(t, 1, paid.ViewCount)
	assert.Equal(t, invitation.StatusPaid, paid.Status)

	exists, err := r.payments.ExistsBySessionID(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWithinTransaction_RollbackRevertsOwnWrites(t *testing.T) {
	r := newRepos()
	ctx := context.Background()
	eventDate := time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := r.invitations.Create(ctx, newDraft("inv", eventDate))
	require.NoError(t, err)
	require.NoError(t, r.invitations.MarkPaid(ctx, "inv", "qr"))

	_, err = r.rsvps.Create(ctx, invitation.RSVP{ID: "r1", InvitationID: "inv", GuestName: "Ana", Attending: true, GuestsCount: 2})
	require.NoError(t, err)
	_, err = r.invitations.RefreshRSVPCount(ctx, "inv")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.invitations.Create(ctx, newDraft("created-in-tx", eventDate)); err != nil {
			return err
		}
		if _, err := r.rsvps.Create(ctx, invitation.RSVP{ID: "r2", InvitationID: "inv", GuestName: "Bia", Attending: true, GuestsCount: 3}); err != nil {
			return err
		}
		if _, err := r.invitations.RefreshRSVPCount(ctx, "inv"); err != nil {
			return err
		}
		if _, err := r.invitations.IncrementViewCount(ctx, "inv"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = r.invitations.GetByID(ctx, "created-in-tx")
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)

	inv, err := r.invitations.GetByID(ctx, "inv")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.RSVPCount)
	assert.Equal(t, 0, inv.ViewCount)

	rsvps, err := r.rsvps.ListByInvitationID(ctx, "inv")
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	assert.Equal(t, "r1", rsvps[0].ID)
}

func TestWithinTransaction_MarkPaidRevertsOnlyStatus(t *testing.T) {
	r := newRepos()
	ctx := context.Background()

	_, err := r.invitations.Create(ctx, newDraft("inv", time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	err = r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.invitations.MarkPaid(ctx, "inv", "qr"); err != nil {
			return err
		}
		return payment.ErrAlreadyProcessed
	})
	assert.ErrorIs(t, err, payment.ErrAlreadyProcessed)

	inv, err := r.invitations.GetByID(ctx, "inv")
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusDraft, inv.Status)
	assert.Nil(t, inv.QRCodeURL)
}

func TestWithinTransaction_RollsBackOnPanic(t *testing.T) {
	r := newRepos()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = r.store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, _ = r.invitations.Create(ctx, newDraft("inv", time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)))
			panic("boom")
		})
	})

	_, err := r.invitations.GetByID(ctx, "inv")
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)

	// The transaction lock was released
	err = r.store.WithinTransaction(ctx, func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestInvitationRepository_DeleteExpired(t *testing.T) {
	r := newRepos()
	ctx := context.Background()

	expired := newDraft("expired", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	active := newDraft("active", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, inv := range []invitation.Invitation{expired, active} {
		_, err := r.invitations.Create(ctx, inv)
		require.NoError(t, err)
	}
	_, err := r.rsvps.Create(ctx, invitation.RSVP{ID: "r1", InvitationID: "expired", GuestName: "Ana", Attending: true, GuestsCount: 1})
	require.NoError(t, err)
	invitationID := "expired"
	_, err = r.payments.Create(ctx, payment.Payment{ID: "p1", InvitationID: &invitationID, ProviderSessionID: "sess-old"})
	require.NoError(t, err)

	purged, err := r.invitations.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, purged, 1)
	assert.Equal(t, "expired", purged[0].ID)
	assert.Equal(t, expired.Photos, purged[0].Photos)

	rsvps, err := r.rsvps.ListByInvitationID(ctx, "expired")
	require.NoError(t, err)
	assert.Empty(t, rsvps)

	exists, err := r.payments.ExistsBySessionID(ctx, "sess-old")
	require.NoError(t, err)
	assert.True(t, exists)

	payments, err := r.payments.ListByInvitationID(ctx, "expired")
	require.NoError(t, err)
	assert.Empty(t, payments)
}
