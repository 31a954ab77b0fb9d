//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/testutil/containers"
)

func setupNotifier(t *testing.T) *RedisNotifier {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	return NewRedisNotifier(rc.Client)
}

func TestRedisNotifier_PublishReachesSubscriber(t *testing.T) {
	notifier := setupNotifier(t)
	ctx := context.Background()
	sessionID := id.NewSessionID()

	updates, cancel, err := notifier.SubscribeStatus(ctx, sessionID)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, notifier.PublishStatus(ctx, sessionID, models.StatusLive))

	select {
	case status := <-updates:
		assert.Equal(t, models.StatusLive, status)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for status update")
	}
}

func TestRedisNotifier_ChannelsAreScopedPerSession(t *testing.T) {
	notifier := setupNotifier(t)
	ctx := context.Background()

	mine := id.NewSessionID()
	other := id.NewSessionID()

	updates, cancel, err := notifier.SubscribeStatus(ctx, mine)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, notifier.PublishStatus(ctx, other, models.StatusLive))
	require.NoError(t, notifier.PublishStatus(ctx, mine, models.StatusEnded))

	select {
	case status := <-updates:
		assert.Equal(t, models.StatusEnded, status, "must only see updates for the subscribed session")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for status update")
	}
}

func TestRedisNotifier_InvalidPayloadsAreDropped(t *testing.T) {
	notifier := setupNotifier(t)
	ctx := context.Background()
	sessionID := id.NewSessionID()

	updates, cancel, err := notifier.SubscribeStatus(ctx, sessionID)
	require.NoError(t, err)
	defer cancel()

	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.Client.Publish(ctx, statusChannel(sessionID), "garbage").Err())
	require.NoError(t, notifier.PublishStatus(ctx, sessionID, models.StatusLive))

	select {
	case status := <-updates:
		assert.Equal(t, models.StatusLive, status)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for status update")
	}
}

func TestRedisNotifier_CancelStopsDelivery(t *testing.T) {
	notifier := setupNotifier(t)
	ctx := context.Background()
	sessionID := id.NewSessionID()

	updates, cancel, err := notifier.SubscribeStatus(ctx, sessionID)
	require.NoError(t, err)
	cancel()

	for {
		if _, ok := <-updates; !ok {
			break
		}
	}
}
