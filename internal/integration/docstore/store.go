// Package docstore keeps users, transactions and budgets as JSON documents in
// Redis hashes. Each user's transactions and budgets live in their own hash,
// so ownership scoping is a property of the key. Multi-key updates use
// optimistic WATCH/MULTI/EXEC transactions.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 10

// Store is the shared state behind the Redis-backed repositories.
type Store struct {
	client *redis.Client
	prefix string
}

// New returns a store using keys under prefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "fintrack"
	}
	return &Store{client: client, prefix: prefix}
}

// HealthCheck pings Redis.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) usersKey() string {
	return s.prefix + ":users"
}

func (s *Store) emailIndexKey() string {
	return s.prefix + ":users:email"
}

func (s *Store) transactionsKey(userID fmt.Stringer) string {
	return s.prefix + ":transactions:" + userID.String()
}

func (s *Store) budgetsKey(userID fmt.Stringer) string {
	return s.prefix + ":budgets:" + userID.String()
}

// watch runs fn inside WATCH on keys, retrying when another client touched them.
func (s *Store) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis transaction on %v: %w", keys, redis.TxFailedErr)
}

// hashReader is satisfied by both *redis.Client and *redis.Tx.
type hashReader interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HVals(ctx context.Context, key string) *redis.StringSliceCmd
}

// getDoc loads one JSON document from a hash field. found is false when the field is absent.
func getDoc[T any](ctx context.Context, c hashReader, key, field string) (doc T, found bool, err error) {
	raw, err := c.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, false, fmt.Errorf("failed to decode %s/%s: %w", key, field, err)
	}
	return doc, true, nil
}

// allDocs loads every JSON document of a hash.
func allDocs[T any](ctx context.Context, c hashReader, key string) ([]T, error) {
	values, err := c.HVals(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0, len(values))
	for _, v := range values {
		var doc T
		if err := json.Unmarshal([]byte(v), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func encode(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
