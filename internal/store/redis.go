package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsechat/pulse/internal/models"
)

// messageTTL bounds how long mirrored history is retained.
const messageTTL = 24 * time.Hour

// RedisHistory is a best-effort write-through mirror of room history. The
// in-memory store stays authoritative for paging; the mirror exists so an
// operator can inspect or retain traffic beyond the process lifetime.
type RedisHistory struct {
	client *redis.Client
}

// NewRedisHistory connects to Redis and verifies the connection.
func NewRedisHistory(ctx context.Context, redisURL string) (*RedisHistory, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisHistory{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisHistory) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisHistory) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// roomMessagesKey returns the key for a room's message sorted set.
func roomMessagesKey(room string) string {
	return fmt.Sprintf("room:%s:messages", room)
}

// Mirror stores a copy of a room message, scored by its timestamp.
func (s *RedisHistory) Mirror(ctx context.Context, msg models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := roomMessagesKey(msg.Room)

	err = s.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(msg.Timestamp),
		Member: string(data),
	}).Err()
	if err != nil {
		return err
	}

	s.client.Expire(ctx, key, messageTTL)

	return nil
}
