package notification

import "context"

// Service delivers emails asynchronously. Failures never reach the caller
// beyond the enqueue step.
type Service interface {
	QueueInvitationReady(ctx context.Context, msg InvitationReadyMessage) error
	Stop()
}
