package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
	"github.com/evermoment/evermoment-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitation(eventDate time.Time) invitation.Invitation {
	location := "Igreja Matriz"
	return invitation.Invitation{
		ID:        uuid.New().String(),
		EventType: invitation.EventTypeWedding,
		PlanType:  invitation.PlanTypePremium,
		Title:     "Casamento Ana e João",
		HostName1: "Ana",
		EventDate: eventDate,
		Location:  &location,
		Email:     "ana@example.com",
		Photos:    []string{"https://cdn.example.com/a.jpg"},
		Status:    invitation.StatusDraft,
		ExpiresAt: invitation.ExpiresAtFor(eventDate),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestInvitationRepository_CreateAndGet(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewInvitationRepository(db)

	inv := newInvitation(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	created, err := repo.Create(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, created.ID)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusDraft, got.Status)
	assert.Equal(t, "2025-12-31", got.EventDate.Format("2006-01-02"))
	assert.True(t, inv.ExpiresAt.Equal(got.ExpiresAt))
	assert.Equal(t, inv.Photos, got.Photos)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Igreja Matriz", *got.Location)
	assert.Nil(t, got.QRCodeURL)

	_, err = repo.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestInvitationRepository_MarkPaidAndCounters(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewInvitationRepository(db)
	rsvpRepo := postgresql.NewRSVPRepository(db)

	inv := newInvitation(time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC))
	_, err := repo.Create(ctx, inv)
	require.NoError(t, err)

	require.NoError(t, repo.MarkPaid(ctx, inv.ID, "data:image/png;base64,AAAA"))
	assert.ErrorIs(t, repo.MarkPaid(ctx, uuid.New().String(), "x"), invitation.ErrInvitationNotFound)

	const viewers = 10
	var wg sync.WaitGroup
	wg.Add(viewers)
	for i := 0; i < viewers; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.IncrementViewCount(ctx, inv.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i, r := range []struct {
		attending bool
		guests    int
	}{{true, 2}, {false, 4}, {true, 3}} {
		_, err := rsvpRepo.Create(ctx, invitation.RSVP{
			ID:           uuid.New().String(),
			InvitationID: inv.ID,
			GuestName:    "Convidado",
			Attending:    r.attending,
			GuestsCount:  r.guests,
			CreatedAt:    time.Now().UTC().Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	count, err := repo.RefreshRSVPCount(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusPaid, got.Status)
	assert.Equal(t, viewers, got.ViewCount)
	assert.Equal(t, 5, got.RSVPCount)

	rsvps, err := rsvpRepo.ListByInvitationID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, rsvps, 3)
	assert.Equal(t, 2, rsvps[0].GuestsCount)
	assert.Equal(t, 3, rsvps[2].GuestsCount)
}

func TestRSVPRepository_ConcurrentTransactionsKeepCount(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewInvitationRepository(db)
	rsvpRepo := postgresql.NewRSVPRepository(db)
	tx := postgresql.NewTransactor(db)

	inv := newInvitation(time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC))
	_, err := repo.Create(ctx, inv)
	require.NoError(t, err)
	require.NoError(t, repo.MarkPaid(ctx, inv.ID, "qr"))

	const guests = 12
	var wg sync.WaitGroup
	wg.Add(guests)
	for i := 0; i < guests; i++ {
		go func() {
			defer wg.Done()
			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				if _, err := rsvpRepo.Create(ctx, invitation.RSVP{
					ID:           uuid.New().String(),
					InvitationID: inv.ID,
					GuestName:    "Convidado",
					Attending:    true,
					GuestsCount:  2,
					CreatedAt:    time.Now().UTC(),
				}); err != nil {
					return err
				}
				_, err := repo.RefreshRSVPCount(ctx, inv.ID)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, guests*2, got.RSVPCount)

	_, err = rsvpRepo.Create(ctx, invitation.RSVP{
		ID:           uuid.New().String(),
		InvitationID: uuid.New().String(),
		GuestName:    "Convidado",
		Attending:    true,
		GuestsCount:  1,
		CreatedAt:    time.Now().UTC(),
	})
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewInvitationRepository(db)
	tx := postgresql.NewTransactor(db)

	inv := newInvitation(time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC))
	_, err := repo.Create(ctx, inv)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.MarkPaid(ctx, inv.ID, "qr"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusDraft, got.Status)
}

func TestPaymentRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	invitationRepo := postgresql.NewInvitationRepository(db)
	repo := postgresql.NewPaymentRepository(db)

	inv := newInvitation(time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC))
	_, err := invitationRepo.Create(ctx, inv)
	require.NoError(t, err)

	p := payment.Payment{
		ID:                uuid.New().String(),
		InvitationID:      &inv.ID,
		ProviderSessionID: "sess-1",
		Amount:            decimal.RequireFromString("99000.50"),
		Currency:          "IDR",
		Status:            payment.StatusSucceeded,
		CustomerEmail:     "ana@example.com",
		CreatedAt:         time.Now().UTC(),
	}
	_, err = repo.Create(ctx, p)
	require.NoError(t, err)

	exists, err := repo.ExistsBySessionID(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, exists)

	p.ID = uuid.New().String()
	_, err = repo.Create(ctx, p)
	assert.ErrorIs(t, err, payment.ErrAlreadyProcessed)

	payments, err := repo.ListByInvitationID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, decimal.RequireFromString("99000.50").Equal(payments[0].Amount))
}

func TestInvitationRepository_DeleteExpired(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewInvitationRepository(db)
	rsvpRepo := postgresql.NewRSVPRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	expired := newInvitation(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	active := newInvitation(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, inv := range []invitation.Invitation{expired, active} {
		_, err := repo.Create(ctx, inv)
		require.NoError(t, err)
	}

	_, err := rsvpRepo.Create(ctx, invitation.RSVP{
		ID:           uuid.New().String(),
		InvitationID: expired.ID,
		GuestName:    "Convidado",
		Attending:    true,
		GuestsCount:  1,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = paymentRepo.Create(ctx, payment.Payment{
		ID:                uuid.New().String(),
		InvitationID:      &expired.ID,
		ProviderSessionID: "sess-old",
		Amount:            decimal.NewFromInt(49000),
		Currency:          "IDR",
		Status:            payment.StatusSucceeded,
		CustomerEmail:     "ana@example.com",
		CreatedAt:         time.Now().UTC(),
	})
	require.NoError(t, err)

	purged, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, purged, 1)
	assert.Equal(t, expired.ID, purged[0].ID)
	assert.Equal(t, expired.Photos, purged[0].Photos)

	_, err = repo.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
	_, err = repo.GetByID(ctx, active.ID)
	assert.NoError(t, err)

	rsvps, err := rsvpRepo.ListByInvitationID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Empty(t, rsvps)

	// Payments survive for accounting
	exists, err := paymentRepo.ExistsBySessionID(ctx, "sess-old")
	require.NoError(t, err)
	assert.True(t, exists)
}
