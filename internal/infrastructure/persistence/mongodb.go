package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoOptions describes the tracking job database
type MongoOptions struct {
	URI            string
	Username       string
	Password       string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

// NewMongoDatabase connects to MongoDB, checks the primary is reachable and
// returns the client together with the configured database.
func NewMongoDatabase(ctx context.Context, opts MongoOptions) (*mongo.Client, *mongo.Database, error) {
	if opts.Database == "" {
		return nil, nil, fmt.Errorf("mongo database name is empty")
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOptions := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(timeout)
	if opts.AppName != "" {
		clientOptions.SetAppName(opts.AppName)
	}
	if opts.Username != "" && opts.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(opts.Database), nil
}
