package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event RelationshipEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event RelationshipEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s duration=%v",
		stream, event.Type, messageID, time.Since(startTime))

	switch event.Type {
	case EventFollowChanged:
		log.Printf("[Publisher]   -> follower=%d following=%d", event.FollowerID, event.FollowingID)
	case EventProgressStale:
		log.Printf("[Publisher]   -> project=%d", event.ProjectID)
	}

	return messageID, nil
}

// PublishFollowChanged is a convenience method for publishing follow graph changes.
func (p *RedisPublisher) PublishFollowChanged(ctx context.Context, followerID, followingID int64) (string, error) {
	event := NewFollowChangedEvent(followerID, followingID)
	return p.Publish(ctx, StreamRelationship, event)
}

// PublishProgressStale is a convenience method for publishing stale project progress.
func (p *RedisPublisher) PublishProgressStale(ctx context.Context, projectID int64) (string, error) {
	event := NewProgressStaleEvent(projectID)
	return p.Publish(ctx, StreamRelationship, event)
}
