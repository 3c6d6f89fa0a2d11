package publisher

import (
	"context"

	"sjsage522/orgcrawler/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	streamPrefix    string
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(addr string, db int, streamPrefix string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		streamPrefix:    streamPrefix,
		streamMaxLength: streamMaxLength,
	}
}

// Stream returns the stream name for a section, e.g. orgcrawler:446
func (p *RedisPublisher) Stream(section models.Section) string {
	return p.streamPrefix + ":" + string(section)
}

// Ping checks the Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Publish appends a message to the section's stream under RecordField
func (p *RedisPublisher) Publish(ctx context.Context, section models.Section, message []byte) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream(section),
		Values: map[string]interface{}{
			RecordField: string(message),
		},
	}).Err()
}

// Trim trims the section's stream to the configured maximum length
func (p *RedisPublisher) Trim(ctx context.Context, section models.Section) error {
	if p.streamMaxLength <= 0 {
		return nil
	}
	return p.client.XTrimMaxLen(ctx, p.Stream(section), int64(p.streamMaxLength)).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
