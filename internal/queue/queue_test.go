package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRelationshipEvent_RoundTrip(t *testing.T) {
	event := NewFollowChangedEvent(1, 2)

	values, err := event.ToMap()
	require.NoError(t, err)
	assert.Equal(t, EventFollowChanged, values["type"])

	parsed, err := ParseRelationshipEvent(values)
	require.NoError(t, err)
	assert.Equal(t, event.FollowerID, parsed.FollowerID)
	assert.Equal(t, event.FollowingID, parsed.FollowingID)
	assert.Equal(t, event.Timestamp, parsed.Timestamp)
}

func TestParseRelationshipEvent_MissingData(t *testing.T) {
	_, err := ParseRelationshipEvent(map[string]interface{}{"type": EventFollowChanged})
	assert.Error(t, err)
}

func TestPublisher_PublishAndConsume(t *testing.T) {
	client := setupRedis(t)
	defer client.Close()

	ctx := context.Background()
	pub := NewPublisher(client)
	consumer := NewConsumer(client)

	require.NoError(t, consumer.EnsureGroup(ctx, StreamRelationship, ConsumerGroupProjection))
	// Creating the group twice must be a no-op
	require.NoError(t, consumer.EnsureGroup(ctx, StreamRelationship, ConsumerGroupProjection))

	msgID, err := pub.Publish(ctx, StreamRelationship, NewFollowChangedEvent(1, 2))
	require.NoError(t, err)
	assert.NotEmpty(t, msgID)

	_, err = pub.Publish(ctx, StreamRelationship, NewProgressStaleEvent(100))
	require.NoError(t, err)

	messages, err := consumer.Read(ctx, StreamRelationship, ConsumerGroupProjection, "worker-1", 10, 10*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, EventFollowChanged, messages[0].Event.Type)
	assert.Equal(t, int64(1), messages[0].Event.FollowerID)
	assert.Equal(t, int64(2), messages[0].Event.FollowingID)

	assert.Equal(t, EventProgressStale, messages[1].Event.Type)
	assert.Equal(t, int64(100), messages[1].Event.ProjectID)

	// Both messages are pending until acknowledged
	pending, err := consumer.Pending(ctx, StreamRelationship, ConsumerGroupProjection)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	require.NoError(t, consumer.Ack(ctx, StreamRelationship, ConsumerGroupProjection, messages[0].ID, messages[1].ID))

	pending, err = consumer.Pending(ctx, StreamRelationship, ConsumerGroupProjection)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}

func TestConsumer_ReadPendingAfterCrash(t *testing.T) {
	client := setupRedis(t)
	defer client.Close()

	ctx := context.Background()
	pub := NewPublisher(client)
	consumer := NewConsumer(client).(*RedisConsumer)

	require.NoError(t, consumer.EnsureGroup(ctx, StreamRelationship, ConsumerGroupProjection))

	_, err := pub.Publish(ctx, StreamRelationship, NewFollowChangedEvent(3, 4))
	require.NoError(t, err)

	// Deliver without acknowledging, simulating a crash mid-processing
	messages, err := consumer.Read(ctx, StreamRelationship, ConsumerGroupProjection, "worker-1", 10, 10*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	// A restarted worker picks the message back up from its pending list
	recovered, err := consumer.ReadPending(ctx, StreamRelationship, ConsumerGroupProjection, "worker-1", 10)
	require.NoError(t, err)
	require.Len(t, recovered, 1)
	assert.Equal(t, messages[0].ID, recovered[0].ID)
	assert.Equal(t, int64(3), recovered[0].Event.FollowerID)
}
