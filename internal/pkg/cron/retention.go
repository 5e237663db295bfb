package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/domain/invitation"
)

// purgeTimeout bounds one purge run, photo deletion included.
const purgeTimeout = 10 * time.Minute

// RetentionJobs removes invitations once their retention window closes
type RetentionJobs struct {
	invitationService invitation.Service
	interval          time.Duration
}

// NewRetentionJobs creates retention cron jobs
func NewRetentionJobs(invitationService invitation.Service, interval time.Duration) *RetentionJobs {
	return &RetentionJobs{
		invitationService: invitationService,
		interval:          interval,
	}
}

// RegisterJobs registers the purge job unless the interval is zero
func (j *RetentionJobs) RegisterJobs(scheduler *Scheduler) {
	if j.interval <= 0 {
		slog.Info("Expired invitation purge disabled")
		return
	}

	scheduler.AddJob(Job{
		Name:     "purge_expired_invitations",
		Interval: j.interval,
		Timeout:  purgeTimeout,
		Fn:       j.PurgeExpiredInvitations,
	})
}

// PurgeExpiredInvitations deletes invitations past expires_at
func (j *RetentionJobs) PurgeExpiredInvitations(ctx context.Context) error {
	deleted, err := j.invitationService.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Expired invitations purged", "count", deleted)
	}
	return nil
}
