package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.ConnectionCount())

	hub.UnregisterClient(clientA)
	assert.Equal(t, 1, hub.ConnectionCount())

	// Unregistering twice is harmless.
	hub.UnregisterClient(clientA)
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.UnregisterClient(clientB)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(1, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(2, nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastAllReachesEveryClient(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(1, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.BroadcastAll(`{"type":"case_published"}`)

	assert.Equal(t, `{"type":"case_published"}`, string(<-clientA.Send))
	assert.Equal(t, `{"type":"case_published"}`, string(<-clientB.Send))
}

func TestHub_StartWiringForwardsRedisEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.False(t, hub.Wired())
	require.NoError(t, hub.StartWiring(ctx, n))
	assert.True(t, hub.Wired())

	require.NoError(t, n.PublishBroadcast(context.Background(), `{"type":"comment_published"}`))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-client.Send:
			return string(msg) == `{"type":"comment_published"}`
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)
}
