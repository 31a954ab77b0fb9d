package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
)

// RedisNotifier publishes session status changes on a per-session pub/sub
// channel. Waiting rooms subscribe to wake up the moment the host goes live
// instead of discovering it on the next poll; the Wait/Admit/Deny contract is
// unchanged either way.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func statusChannel(sessionID id.SessionID) string {
	return fmt.Sprintf("livegate:session:%s:status", sessionID)
}

// PublishStatus emits the new status on the session's channel.
func (n *RedisNotifier) PublishStatus(ctx context.Context, sessionID id.SessionID, status models.Status) error {
	return n.client.Publish(ctx, statusChannel(sessionID), string(status)).Err()
}

// SubscribeStatus returns a channel of status updates for the session. The
// returned cancel func must be called to release the subscription.
func (n *RedisNotifier) SubscribeStatus(ctx context.Context, sessionID id.SessionID) (<-chan models.Status, func(), error) {
	sub := n.client.Subscribe(ctx, statusChannel(sessionID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe session status: %w", err)
	}

	out := make(chan models.Status, 1)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				status := models.Status(msg.Payload)
				if !status.Valid() {
					continue
				}
				select {
				case out <- status:
				case <-done:
					return
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = sub.Close()
	}
	return out, cancel, nil
}
