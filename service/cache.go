// file: service/cache.go

package service

import (
	"context"
	"go-ledger-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ICacheClient defines the contract for a cache client.
// This abstraction allows us to decouple the TransactionService from a
// concrete Redis implementation, enabling easier testing and future
// flexibility.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// summaryCache wraps a cache client with a circuit breaker so a misbehaving
// Redis does not slow every summary request down. Callers treat any returned
// error as a cache miss and fall through to the database.
type summaryCache struct {
	client ICacheClient
	cb     *gobreaker.CircuitBreaker
}

func newSummaryCache(client ICacheClient) *summaryCache {
	if client == nil {
		return nil
	}

	settings := gobreaker.Settings{
		Name: "summary-cache",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip after 5 consecutive failures.
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A cache miss is a normal outcome, not a Redis failure.
			return err == nil || err == redis.Nil
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Cache circuit breaker state changed")
		},
	}

	return &summaryCache{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *summaryCache) get(ctx context.Context, key string) (string, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Get(ctx, key).Result()
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *summaryCache) set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, key, value, expiration).Err()
	})
	return err
}

func (c *summaryCache) del(ctx context.Context, key string) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Del(ctx, key).Err()
	})
	return err
}
