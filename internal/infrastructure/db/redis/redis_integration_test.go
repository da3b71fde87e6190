//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/portesillo/tracking-service/internal/realtime"
)

func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := Connect(ctx, Config{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDedupChecker_Integration(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	d := NewDedupChecker(client, time.Minute)

	dup, err := d.IsDuplicate(ctx, "order-1", "accepted", "key-1")
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, d.Mark(ctx, "order-1", "accepted", "key-1"))

	dup, err = d.IsDuplicate(ctx, "order-1", "accepted", "key-1")
	require.NoError(t, err)
	assert.True(t, dup)

	// the key is scoped to the status it was used with
	dup, err = d.IsDuplicate(ctx, "order-1", "cancelled", "key-1")
	require.NoError(t, err)
	assert.False(t, dup)

	ttl, err := client.TTL(ctx, d.key("order-1", "accepted", "key-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRelay_Integration(t *testing.T) {
	client := setupRedis(t)
	relay := NewRelay(client, "tracking-test", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan realtime.RelayMessage, 1)
	go func() { _ = relay.Run(ctx, func(m realtime.RelayMessage) { got <- m }) }()

	want := realtime.RelayMessage{OrderID: "order-1", Exclude: "conn-1", Frame: []byte(`{"event":"driver-arrived"}`)}
	require.Eventually(t, func() bool {
		if err := relay.Publish(ctx, want); err != nil {
			return false
		}
		select {
		case m := <-got:
			assert.Equal(t, want, m)
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}
