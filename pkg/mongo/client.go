package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultDatabase   = "empleos_ia"
	defaultCollection = "ofertas"
)

// Client wraps the MongoDB driver for reuse across repositories
type Client struct {
	client     *mongo.Client
	database   string
	collection string
}

// Config holds MongoDB connection configuration
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // per-operation timeout applied by the driver
}

// NewClient creates and verifies a MongoDB client connection
func NewClient(cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: uri is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to verify MongoDB connectivity: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = defaultDatabase
	}
	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}

	return &Client{client: client, database: database, collection: collection}, nil
}

// Jobs returns the configured job collection
func (c *Client) Jobs() *mongo.Collection {
	return c.client.Database(c.database).Collection(c.collection)
}

// Close disconnects the MongoDB client
func (c *Client) Close(ctx context.Context) error {
	if c.client != nil {
		return c.client.Disconnect(ctx)
	}
	return nil
}
