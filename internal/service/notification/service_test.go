package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailService struct {
	mu      sync.Mutex
	sent    []notification.InvitationReadyMessage
	fail    bool
	block   chan struct{}
	started chan struct{}
}

func (r *recordingEmailService) SendInvitationReady(ctx context.Context, msg notification.InvitationReadyMessage) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("smtp down")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingEmailService) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestNotificationService_DeliversQueuedMessages(t *testing.T) {
	mailer := &recordingEmailService{}
	svc := NewNotificationService(mailer, Config{WorkerCount: 2, QueueSize: 10})

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.QueueInvitationReady(context.Background(), notification.InvitationReadyMessage{
			InvitationID: "inv",
			To:           "maria@example.com",
		}))
	}

	// Stop drains the queue before returning
	svc.Stop()

	assert.Equal(t, 5, mailer.count())
}

func TestNotificationService_SendFailureIsSwallowed(t *testing.T) {
	mailer := &recordingEmailService{fail: true}
	svc := NewNotificationService(mailer, Config{WorkerCount: 1, QueueSize: 1})

	require.NoError(t, svc.QueueInvitationReady(context.Background(), notification.InvitationReadyMessage{To: "maria@example.com"}))
	svc.Stop()

	assert.Equal(t, 0, mailer.count())
}

func TestNotificationService_QueueFull(t *testing.T) {
	mailer := &recordingEmailService{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	svc := NewNotificationService(mailer, Config{WorkerCount: 1, QueueSize: 1})

	// First message occupies the worker, second fills the queue
	require.NoError(t, svc.QueueInvitationReady(context.Background(), notification.InvitationReadyMessage{To: "a@example.com"}))
	select {
	case <-mailer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not pick up the message")
	}
	require.NoError(t, svc.QueueInvitationReady(context.Background(), notification.InvitationReadyMessage{To: "b@example.com"}))

	err := svc.QueueInvitationReady(context.Background(), notification.InvitationReadyMessage{To: "c@example.com"})
	assert.ErrorIs(t, err, notification.ErrQueueFull)

	close(mailer.block)
	svc.Stop()
}

func TestNotificationService_QueueAfterStop(t *testing.T) {
	svc := NewNotificationService(&recordingEmailService{}, Config{})
	svc.Stop()
	svc.Stop()

	err := svc.QueueInvitationReady(context.Background(), notification.InvitationReadyMessage{To: "a@example.com"})
	assert.ErrorIs(t, err, notification.ErrServiceStopped)
}
