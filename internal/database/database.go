package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

const (
	// connectTimeout bounds dialing and the post-dial ping
	connectTimeout = 10 * time.Second
)

// dialFunc establishes a MongoDB client. Injectable for tests.
type dialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// DB lazily connects to MongoDB and memoizes the client for the lifetime of
// the process. Concurrent callers racing on a cold connection share a single
// dial attempt; a failed attempt is cleared so a later call can retry.
type DB struct {
	uri  string
	name string
	dial dialFunc

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
}

// New creates a lazy MongoDB handle. No I/O happens until Connect.
func New(uri, name string) *DB {
	return &DB{
		uri:  uri,
		name: name,
		dial: dialMongo,
	}
}

// Connect returns the database handle, dialing on first use. Safe to call
// concurrently; at most one dial is in flight at any time.
func (d *DB) Connect(ctx context.Context) (*mongo.Database, error) {
	if d.uri == "" {
		return nil, ErrNotConfigured
	}

	d.mu.RLock()
	client := d.client
	d.mu.RUnlock()
	if client != nil {
		return client.Database(d.name), nil
	}

	v, err, _ := d.group.Do("connect", func() (any, error) {
		// A previous winner may have populated the cache already
		d.mu.RLock()
		cached := d.client
		d.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		dialed, err := d.dial(ctx, d.uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		d.mu.Lock()
		d.client = dialed
		d.mu.Unlock()
		return dialed, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*mongo.Client).Database(d.name), nil
}

// Collection returns a handle to the named collection, connecting first if needed.
func (d *DB) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := d.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping verifies the database is reachable, connecting first if needed.
func (d *DB) Ping(ctx context.Context) error {
	db, err := d.Connect(ctx)
	if err != nil {
		return err
	}
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the cached client, if any.
func (d *DB) Close(ctx context.Context) error {
	d.mu.Lock()
	client := d.client
	d.client = nil
	d.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func dialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
