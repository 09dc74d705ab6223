// Package cache keeps account to employee lookups in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chronos:account:"

// Redis stores employees as JSON under a per-account key.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedis creates a Redis cache. Entries expire after ttl.
func NewRedis(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *Redis {
	return &Redis{client: client, ttl: ttl, metrics: m}
}

// Connect opens a redis client and checks it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Get returns the cached employee of the account. A miss is not an error.
func (r *Redis) Get(ctx context.Context, accountID int64) (models.Employee, bool, error) {
	raw, err := r.client.Get(ctx, key(accountID)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.CacheOp("get", "miss")
		return models.Employee{}, false, nil
	}
	if err != nil {
		r.metrics.CacheOp("get", "error")
		return models.Employee{}, false, fmt.Errorf("failed to get cached employee: %w", err)
	}

	var employee models.Employee
	if err = json.Unmarshal(raw, &employee); err != nil {
		r.metrics.CacheOp("get", "error")
		return models.Employee{}, false, fmt.Errorf("failed to decode cached employee: %w", err)
	}

	r.metrics.CacheOp("get", "hit")
	return employee, true, nil
}

// Set caches the employee under its account id.
func (r *Redis) Set(ctx context.Context, employee models.Employee) error {
	raw, err := json.Marshal(employee)
	if err != nil {
		r.metrics.CacheOp("set", "error")
		return fmt.Errorf("failed to encode employee: %w", err)
	}

	if err = r.client.Set(ctx, key(employee.AccountID), raw, r.ttl).Err(); err != nil {
		r.metrics.CacheOp("set", "error")
		return fmt.Errorf("failed to cache employee: %w", err)
	}

	r.metrics.CacheOp("set", "success")
	return nil
}

// Delete drops the cached employee of the account.
func (r *Redis) Delete(ctx context.Context, accountID int64) error {
	if err := r.client.Del(ctx, key(accountID)).Err(); err != nil {
		r.metrics.CacheOp("delete", "error")
		return fmt.Errorf("failed to delete cached employee: %w", err)
	}

	r.metrics.CacheOp("delete", "success")
	return nil
}

// Ping reports whether redis answers. It serves the health endpoint.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func key(accountID int64) string {
	return fmt.Sprintf("%s%d:employee", keyPrefix, accountID)
}

// Noop is used when redis is not configured. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, int64) (models.Employee, bool, error) {
	return models.Employee{}, false, nil
}

func (Noop) Set(context.Context, models.Employee) error { return nil }

func (Noop) Delete(context.Context, int64) error { return nil }
