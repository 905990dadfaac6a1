// Package repository provides the MongoDB data access layer for named caches.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cachesCollection  = "caches"
	entriesCollection = "cache_entries"
)

// MongoConfig tunes the client. Cached bodies can be large, so the socket
// timeout is generous while server selection fails fast enough for the
// proxy to fall back to memory storage at startup.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	Compressors            []string
}

// DefaultMongoConfig returns settings sized for a single proxy instance.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            20,
		MinPoolSize:            2,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		Compressors:            []string{"zstd", "snappy", "zlib"},
	}
}

// MongoDB holds the client and the two collections named caches live in.
type MongoDB struct {
	Client       *mongo.Client
	Database     *mongo.Database
	Caches       *mongo.Collection
	CacheEntries *mongo.Collection
}

// indexSpecs lists the indexes the cache repository relies on.
var indexSpecs = []struct {
	collection string
	model      mongo.IndexModel
}{
	// One entry per (cache, key); Put replaces.
	{entriesCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "cache", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("cache_key_unique"),
	}},
	// Storage-wide match looks entries up by key alone.
	{entriesCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetName("key"),
	}},
	// Keys() lists caches in creation order.
	{cachesCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("created_at"),
	}},
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings and ensures indexes. The client is
// disconnected again on any failure.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if len(cfg.Compressors) > 0 {
		opts.SetCompressors(cfg.Compressors)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:       client,
		Database:     db,
		Caches:       db.Collection(cachesCollection),
		CacheEntries: db.Collection(entriesCollection),
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return m, nil
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	for _, idx := range indexSpecs {
		if _, err := m.Database.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("%s: %w", idx.collection, err)
		}
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary with a short timeout.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

// Check satisfies the readiness checker.
func (m *MongoDB) Check() error {
	return m.HealthCheck(context.Background())
}
