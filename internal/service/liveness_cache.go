package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const livenessKeyTTL = 24 * time.Hour

// LivenessCache keeps the last heartbeat per (user, exam key). The heartbeat
// table stays the source of truth; a miss falls back to it.
type LivenessCache interface {
	Touch(ctx context.Context, userID uint, examKey string, at time.Time) error
	LastSeen(ctx context.Context, userID uint, examKey string) (time.Time, bool, error)
}

type redisLivenessCache struct {
	client *redis.Client
}

func NewRedisLivenessCache(client *redis.Client) LivenessCache {
	return &redisLivenessCache{client: client}
}

func livenessKey(userID uint, examKey string) string {
	return fmt.Sprintf("proctor:lastseen:%d:%s", userID, examKey)
}

func (c *redisLivenessCache) Touch(ctx context.Context, userID uint, examKey string, at time.Time) error {
	return c.client.Set(ctx, livenessKey(userID, examKey), at.UnixNano(), livenessKeyTTL).Err()
}

func (c *redisLivenessCache) LastSeen(ctx context.Context, userID uint, examKey string) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, livenessKey(userID, examKey)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt liveness entry %q: %w", val, err)
	}
	return time.Unix(0, nanos).UTC(), true, nil
}
