// Package redis stores session data in Redis. Session keys are written as
// session:<client>:<key> with a sliding TTL; durable keys as
// durable:<client>:<key> with a sliding storage.DurableTTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendify/storefront/internal/storage"
	"github.com/trendify/storefront/pkg/database"
)

const (
	sessionPrefix = "session:"
	durablePrefix = "durable:"
)

// Store hands out Redis-backed adapters.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	tracer *database.QueryTracer
}

// New creates a Redis-backed provider. tracer may be nil.
func New(client *redis.Client, ttl time.Duration, tracer *database.QueryTracer) *Store {
	return &Store{client: client, ttl: ttl, tracer: tracer}
}

// For returns the adapter for clientID.
func (s *Store) For(clientID string) storage.Adapter {
	return &adapter{store: s, clientID: clientID}
}

type adapter struct {
	store    *Store
	clientID string
}

func (a *adapter) redisKey(key string) string {
	if storage.Durable(key) {
		return durablePrefix + a.clientID + ":" + key
	}
	return sessionPrefix + a.clientID + ":" + key
}

func (a *adapter) ttl(key string) time.Duration {
	if storage.Durable(key) {
		return storage.DurableTTL
	}
	return a.store.ttl
}

// Get reads key and refreshes its TTL.
func (a *adapter) Get(ctx context.Context, key string) (val string, err error) {
	rk := a.redisKey(key)
	ctx, end := a.store.tracer.Start(ctx, "storage.Get", "GETEX "+rk)
	defer func() { end(err) }()

	val, err = a.store.client.GetEx(ctx, rk, a.ttl(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.NotFound(key)
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set writes key with the session or durable TTL.
func (a *adapter) Set(ctx context.Context, key, value string) (err error) {
	rk := a.redisKey(key)
	ctx, end := a.store.tracer.Start(ctx, "storage.Set", "SET "+rk)
	defer func() { end(err) }()

	if err = a.store.client.Set(ctx, rk, value, a.ttl(key)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key; deleting an absent key is not an error.
func (a *adapter) Remove(ctx context.Context, key string) (err error) {
	rk := a.redisKey(key)
	ctx, end := a.store.tracer.Start(ctx, "storage.Remove", "DEL "+rk)
	defer func() { end(err) }()

	if err = a.store.client.Del(ctx, rk).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
