package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"teamawesome_t4/internal/queue"
)

// SummaryRepairer re-derives the follower counters for both endpoints of a
// follow edge. This abstracts the service layer so workers don't depend on
// the DB directly.
type SummaryRepairer interface {
	RepairSummaries(ctx context.Context, followerID, followingID int64) error
}

// ProgressRepairer re-derives a project's progress percentage from its
// milestone rows.
type ProgressRepairer interface {
	RecomputeProgress(ctx context.Context, projectID int64) error
}

// Handler processes relationship events from the queue. Every handler is a
// recompute from source-of-truth rows, so redelivered messages are harmless.
type Handler struct {
	summaries SummaryRepairer
	progress  ProgressRepairer
}

// NewHandler creates a new event handler.
func NewHandler(summaries SummaryRepairer, progress ProgressRepairer) *Handler {
	return &Handler{
		summaries: summaries,
		progress:  progress,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.RelationshipEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventFollowChanged:
		err = h.handleFollowChanged(ctx, event)
	case queue.EventProgressStale:
		err = h.handleProgressStale(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleFollowChanged recomputes the follower summaries of both endpoints of
// a mutated edge.
func (h *Handler) handleFollowChanged(ctx context.Context, event queue.RelationshipEvent) error {
	log.Printf("[Worker] FollowChanged: follower=%d following=%d", event.FollowerID, event.FollowingID)

	if err := h.summaries.RepairSummaries(ctx, event.FollowerID, event.FollowingID); err != nil {
		return fmt.Errorf("repair summaries: %w", err)
	}

	log.Printf("[Worker] FollowChanged DONE: follower=%d following=%d", event.FollowerID, event.FollowingID)
	return nil
}

// handleProgressStale recomputes a project's progress percentage.
func (h *Handler) handleProgressStale(ctx context.Context, event queue.RelationshipEvent) error {
	log.Printf("[Worker] ProgressStale: project=%d", event.ProjectID)

	if err := h.progress.RecomputeProgress(ctx, event.ProjectID); err != nil {
		return fmt.Errorf("recompute progress: %w", err)
	}

	log.Printf("[Worker] ProgressStale DONE: project=%d", event.ProjectID)
	return nil
}
