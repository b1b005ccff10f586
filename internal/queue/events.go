package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the relationship stream.
const (
	EventFollowChanged = "follow_changed"
	EventProgressStale = "progress_stale"
)

// Stream names
const (
	StreamRelationship = "stream:relationship"
)

// Consumer group name for projection workers
const (
	ConsumerGroupProjection = "projection_workers"
)

// RelationshipEvent is published after a graph or milestone mutation commits.
// Workers consume it to re-run the idempotent projection recomputes, so any
// drift between source rows and denormalized values heals itself.
type RelationshipEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// Follow events
	FollowerID  int64 `json:"follower_id,omitempty"`
	FollowingID int64 `json:"following_id,omitempty"`

	// Progress events
	ProjectID int64 `json:"project_id,omitempty"`
}

// NewFollowChangedEvent creates an event for any mutation of a follow edge.
// Workers recompute the follower summaries of both endpoints.
func NewFollowChangedEvent(followerID, followingID int64) RelationshipEvent {
	return RelationshipEvent{
		Type:        EventFollowChanged,
		Timestamp:   time.Now().Unix(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
}

// NewProgressStaleEvent creates an event for a project whose milestone set
// changed. Workers recompute the project's progress percentage.
func NewProgressStaleEvent(projectID int64) RelationshipEvent {
	return RelationshipEvent{
		Type:      EventProgressStale,
		Timestamp: time.Now().Unix(),
		ProjectID: projectID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e RelationshipEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseRelationshipEvent parses a RelationshipEvent from Redis stream message values.
func ParseRelationshipEvent(values map[string]interface{}) (RelationshipEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return RelationshipEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event RelationshipEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return RelationshipEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
