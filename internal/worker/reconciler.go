package worker

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SummarySweepSource enumerates users with follow activity and rebuilds a
// single user's counters.
type SummarySweepSource interface {
	ListTrackedUserIDs(ctx context.Context) ([]int64, error)
	RecomputeSummary(ctx context.Context, userID int64) error
}

// ProjectIDLister enumerates all project IDs for the progress sweep.
type ProjectIDLister interface {
	ListProjectIDs(ctx context.Context) ([]int64, error)
}

// Reconciler runs a periodic full sweep over the denormalized values. The
// event stream repairs drift quickly; the sweep is the backstop that catches
// anything the stream missed (lost events, manual DB edits).
type Reconciler struct {
	summaries SummarySweepSource
	projects  ProjectIDLister
	progress  ProgressRepairer

	spec string
	cron *cron.Cron
}

// NewReconciler creates a reconciler with the given cron spec, e.g. "@every 1h".
func NewReconciler(summaries SummarySweepSource, projects ProjectIDLister, progress ProgressRepairer, spec string) *Reconciler {
	return &Reconciler{
		summaries: summaries,
		projects:  projects,
		progress:  progress,
		spec:      spec,
		cron:      cron.New(),
	}
}

// Start schedules the sweep. Call Stop to halt it.
func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		r.Sweep(ctx)
	}); err != nil {
		return err
	}

	r.cron.Start()
	log.Printf("[Reconciler] Scheduled sweep: spec=%q", r.spec)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
	log.Printf("[Reconciler] Stopped")
}

// Sweep rebuilds every follower summary and every project's progress. Each
// item is independent; a failure is logged and the sweep moves on.
func (r *Reconciler) Sweep(ctx context.Context) {
	startTime := time.Now()
	log.Printf("[Reconciler] Sweep starting")

	userIDs, err := r.summaries.ListTrackedUserIDs(ctx)
	if err != nil {
		log.Printf("[Reconciler] Failed to list users: %v", err)
	} else {
		var failCount int
		for _, userID := range userIDs {
			if err := r.summaries.RecomputeSummary(ctx, userID); err != nil {
				log.Printf("[Reconciler] Summary recompute failed: user=%d err=%v", userID, err)
				failCount++
			}
		}
		log.Printf("[Reconciler] Summaries swept: users=%d failed=%d", len(userIDs), failCount)
	}

	projectIDs, err := r.projects.ListProjectIDs(ctx)
	if err != nil {
		log.Printf("[Reconciler] Failed to list projects: %v", err)
	} else {
		var failCount int
		for _, projectID := range projectIDs {
			if err := r.progress.RecomputeProgress(ctx, projectID); err != nil {
				log.Printf("[Reconciler] Progress recompute failed: project=%d err=%v", projectID, err)
				failCount++
			}
		}
		log.Printf("[Reconciler] Progress swept: projects=%d failed=%d", len(projectIDs), failCount)
	}

	log.Printf("[Reconciler] Sweep done: duration=%v", time.Since(startTime))
}
