package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 100
	appName            = "tracking-service"
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	// Timeout bounds the whole connect phase, retries included.
	Timeout time.Duration
}

// Connect establishes a MongoDB client and pings it until the server answers
// or the timeout expires, then returns both the client and the selected
// database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	poolSize := cfg.MaxPoolSize
	if poolSize == 0 {
		poolSize = defaultMaxPoolSize
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetMaxPoolSize(poolSize)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	ping := func() error { return client.Ping(connectCtx, nil) }
	if err := backoff.Retry(ping, backoff.WithContext(backoff.NewExponentialBackOff(), connectCtx)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
