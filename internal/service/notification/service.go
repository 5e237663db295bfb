package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/notification"
	"github.com/evermoment/evermoment-backend-go/internal/pkg/email"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 100
	SendTimeout time.Duration // default: 30 seconds
}

type service struct {
	email  email.EmailService
	config Config

	queue   chan notification.InvitationReadyMessage
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(emailService email.EmailService, cfg Config) notification.Service {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	s := &service{
		email:  emailService,
		config: cfg,
		queue:  make(chan notification.InvitationReadyMessage, cfg.QueueSize),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return s
}

// worker drains the queue until it is closed
func (s *service) worker(id int) {
	defer s.wg.Done()

	for msg := range s.queue {
		s.send(id, msg)
	}
}

// send delivers one message; failures are logged and never retried
func (s *service) send(workerID int, msg notification.InvitationReadyMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SendTimeout)
	defer cancel()

	if err := s.email.SendInvitationReady(ctx, msg); err != nil {
		slog.Error("Failed to send invitation ready email",
			"worker", workerID,
			"invitation_id", msg.InvitationID,
			"to", msg.To,
			"error", err,
		)
		return
	}

	slog.Debug("Invitation ready email delivered", "worker", workerID, "invitation_id", msg.InvitationID)
}

// QueueInvitationReady queues the activation email for async delivery
func (s *service) QueueInvitationReady(ctx context.Context, msg notification.InvitationReadyMessage) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return notification.ErrServiceStopped
	}

	select {
	case s.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

// Stop closes the queue and waits for queued messages to be sent
func (s *service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("Notification service stopped")
}
