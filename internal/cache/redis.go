package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/queuebeat/backend/internal/models"
)

// RedisClient relays channel events over Redis pub/sub so bot processes
// outside this binary can consume the stream, and caches polling cursors.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

func eventChannel(channelID uuid.UUID) string {
	return fmt.Sprintf("events:%s", channelID.String())
}

// PublishEvent mirrors a domain event onto the channel's pub/sub topic.
// Implements eventbus.Relay.
func (r *RedisClient) PublishEvent(ev models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, eventChannel(ev.ChannelID), data).Err()
}

// SubscribeToEvents subscribes to a channel's relayed event topic
func (r *RedisClient) SubscribeToEvents(channelID uuid.UUID) *redis.PubSub {
	return r.client.Subscribe(r.ctx, eventChannel(channelID))
}

// Cursor bookkeeping for polling consumers

func cursorKey(channelID uuid.UUID, consumer string) string {
	return fmt.Sprintf("cursor:%s:%s", channelID.String(), consumer)
}

// SetCursor records the last event time a polling consumer has seen
func (r *RedisClient) SetCursor(channelID uuid.UUID, consumer string, eventTime int64) error {
	return r.client.Set(r.ctx, cursorKey(channelID, consumer), eventTime, 24*time.Hour).Err()
}

// GetCursor returns a polling consumer's stored cursor, 0 when absent
func (r *RedisClient) GetCursor(channelID uuid.UUID, consumer string) (int64, error) {
	val, err := r.client.Get(r.ctx, cursorKey(channelID, consumer)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// GetClient returns the underlying Redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}
