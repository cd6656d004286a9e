// Package neo4j owns the driver lifecycle and the transaction plumbing shared
// by the graph-backed stores.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	n4jconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
)

const verifyTimeout = 5 * time.Second

// SessionOpener opens sessions bound to one database
type SessionOpener interface {
	Session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext
}

var _ SessionOpener = (*Client)(nil)

type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

type Config struct {
	URI      string
	Username string
	Password string
	Database string        // empty selects the server's home database
	Timeout  time.Duration // connection acquisition and socket timeout
}

// NewClient creates the driver and checks that the server is reachable
func NewClient(cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("neo4j: uri is required")
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *n4jconfig.Config) {
			if cfg.Timeout > 0 {
				c.ConnectionAcquisitionTimeout = cfg.Timeout
				c.SocketConnectTimeout = cfg.Timeout
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("neo4j: create driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}

	return &Client{driver: driver, database: cfg.Database}, nil
}

// Session opens a session on the configured database
func (c *Client) Session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: c.database})
}

func (c *Client) Close(ctx context.Context) error {
	if c.driver != nil {
		return c.driver.Close(ctx)
	}
	return nil
}

// Write runs work in a retried write transaction and closes the session
func Write[T any](ctx context.Context, s SessionOpener, work neo4j.ManagedTransactionWorkT[T]) (T, error) {
	session := s.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	return neo4j.ExecuteWrite(ctx, session, work)
}

// Read runs work in a retried read transaction and closes the session
func Read[T any](ctx context.Context, s SessionOpener, work neo4j.ManagedTransactionWorkT[T]) (T, error) {
	session := s.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)
	return neo4j.ExecuteRead(ctx, session, work)
}

// Exec runs a statement and discards its records
func Exec(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// Single runs a statement expected to return exactly one row and reads key from it
func Single[T neo4j.RecordValue](ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any, key string) (T, error) {
	var zero T
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return zero, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return zero, err
	}
	v, _, err := neo4j.GetRecordValue[T](record, key)
	return v, err
}

// EnsureSchema applies idempotent schema statements, one transaction each.
// Neo4j rejects schema changes mixed with other writes in a transaction.
func EnsureSchema(ctx context.Context, s SessionOpener, statements ...string) error {
	for _, stmt := range statements {
		_, err := Write(ctx, s, func(tx neo4j.ManagedTransaction) (struct{}, error) {
			return struct{}{}, Exec(ctx, tx, stmt, nil)
		})
		if err != nil {
			return fmt.Errorf("neo4j: apply schema %q: %w", stmt, err)
		}
	}
	return nil
}
