package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/valueobject"
)

const scoreKeyPrefix = "credit:score:"

// RedisScoreCache implements port.ScoreCache. Scores are stored as their
// exact decimal string so cached and fresh values compare equal.
type RedisScoreCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisScoreCache creates a cache whose entries expire after ttl.
func NewRedisScoreCache(client redis.Cmdable, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func scoreKey(customerID uuid.UUID) string {
	return scoreKeyPrefix + customerID.String()
}

// Get returns the cached score and whether one was present.
func (c *RedisScoreCache) Get(ctx context.Context, customerID uuid.UUID) (valueobject.CreditScore, bool, error) {
	raw, err := c.client.Get(ctx, scoreKey(customerID)).Result()
	if errors.Is(err, redis.Nil) {
		return valueobject.CreditScore{}, false, nil
	}
	if err != nil {
		return valueobject.CreditScore{}, false, fmt.Errorf("get cached score: %w", err)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return valueobject.CreditScore{}, false, fmt.Errorf("parse cached score %q: %w", raw, err)
	}
	return valueobject.NewCreditScore(value), true, nil
}

// Set stores score for the configured TTL.
func (c *RedisScoreCache) Set(ctx context.Context, customerID uuid.UUID, score valueobject.CreditScore) error {
	if err := c.client.Set(ctx, scoreKey(customerID), score.Value().String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached score: %w", err)
	}
	return nil
}

// Invalidate drops the cached score, if any.
func (c *RedisScoreCache) Invalidate(ctx context.Context, customerID uuid.UUID) error {
	if err := c.client.Del(ctx, scoreKey(customerID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached score: %w", err)
	}
	return nil
}
