package database

import (
	"context"
	"fmt"
	"time"

	"github.com/supermercado/api-supermercado/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OpenMongo builds a pooled client without contacting the server. The driver
// connects lazily, so operations fail until the deployment is reachable.
func OpenMongo(ctx context.Context, uri string, timeout time.Duration, maxPoolSize uint64) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout)
	if maxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(maxPoolSize)
	}
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return client, nil
}

// ConnectMongo opens a pooled client and verifies it with a ping. The client is
// meant to live for the whole process; caller should call client.Disconnect(ctx) on shutdown.
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration, maxPoolSize uint64) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := OpenMongo(ctx, uri, timeout, maxPoolSize)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// ConnectMongoWithRetry retries ConnectMongo with exponential backoff to tolerate
// the store starting after the gateway.
func ConnectMongoWithRetry(ctx context.Context, uri string, timeout time.Duration, maxPoolSize uint64, maxAttempts int) (*mongo.Client, error) {
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := ConnectMongo(ctx, uri, timeout, maxPoolSize)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("mongo: giving up after %d attempts: %w", maxAttempts, lastErr)
}
