package service

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/queue"
	"teamawesome_t4/internal/repository"
)

// MilestoneService manages project milestones and keeps the project's
// progress percentage in sync with them. Progress is a best-effort
// projection: a failed recompute is logged and queued for repair, it never
// fails the milestone operation that triggered it.
type MilestoneService struct {
	collabRepo    repository.CollaboratorRepository
	milestoneRepo repository.MilestoneRepository
	projectRepo   repository.ProjectRepository
	db            database.Querier
	tx            database.TxRunner
	publisher     queue.Publisher

	// now is swappable in tests for the due-date policy.
	now func() time.Time
}

func NewMilestoneService(
	collabRepo repository.CollaboratorRepository,
	milestoneRepo repository.MilestoneRepository,
	projectRepo repository.ProjectRepository,
	db database.Querier,
	tx database.TxRunner,
	publisher queue.Publisher,
) *MilestoneService {
	return &MilestoneService{
		collabRepo:    collabRepo,
		milestoneRepo: milestoneRepo,
		projectRepo:   projectRepo,
		db:            db,
		tx:            tx,
		publisher:     publisher,
		now:           time.Now,
	}
}

// ProgressPercentage computes round(100 * completed / total), 0 when there
// are no milestones.
func ProgressPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// GetMilestones lists a project's milestones for an active collaborator.
func (s *MilestoneService) GetMilestones(ctx context.Context, projectID, userID int64) ([]model.MilestoneDetail, error) {
	if err := s.requireActive(ctx, s.db, projectID, userID); err != nil {
		return nil, err
	}
	return s.milestoneRepo.List(ctx, s.db, projectID)
}

// AddMilestone creates a milestone. The due date must not be before today;
// an omitted order index appends after the current highest.
func (s *MilestoneService) AddMilestone(ctx context.Context, projectID, userID int64, req model.CreateMilestoneRequest) (*model.Milestone, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.DueDate == nil {
		return nil, model.ErrMilestoneNameMissing
	}
	if len(name) > model.MaxMilestoneNameLen {
		return nil, model.ErrMilestoneNameTooLong
	}
	if s.dueDateInPast(*req.DueDate) {
		return nil, model.ErrDueDateInPast
	}

	var milestone *model.Milestone

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		if err := s.requireActive(ctx, q, projectID, userID); err != nil {
			return err
		}

		orderIndex := req.OrderIndex
		if orderIndex == 0 {
			next, err := s.milestoneRepo.NextOrderIndex(ctx, q, projectID)
			if err != nil {
				return err
			}
			orderIndex = next
		}

		var description *string
		if req.Description != nil {
			trimmed := strings.TrimSpace(*req.Description)
			if trimmed != "" {
				description = &trimmed
			}
		}

		var err error
		milestone, err = s.milestoneRepo.Insert(ctx, q, projectID, name, description, *req.DueDate, orderIndex)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recomputeProgress(ctx, projectID)
	return milestone, nil
}

// UpdateMilestone applies a typed patch to a milestone.
func (s *MilestoneService) UpdateMilestone(ctx context.Context, projectID, milestoneID, userID int64, patch model.MilestonePatch) (*model.Milestone, error) {
	if patch.Name != nil {
		if len(strings.TrimSpace(*patch.Name)) > model.MaxMilestoneNameLen {
			return nil, model.ErrMilestoneNameTooLong
		}
	}
	if patch.DueDate != nil && s.dueDateInPast(*patch.DueDate) {
		return nil, model.ErrDueDateInPast
	}

	var milestone *model.Milestone

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		if err := s.requireActive(ctx, q, projectID, userID); err != nil {
			return err
		}

		existing, err := s.milestoneRepo.GetByID(ctx, q, projectID, milestoneID)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			milestone = existing
			return nil
		}

		milestone, err = s.milestoneRepo.Update(ctx, q, projectID, milestoneID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recomputeProgress(ctx, projectID)
	return milestone, nil
}

// CompleteMilestone marks a pending milestone completed by userID.
func (s *MilestoneService) CompleteMilestone(ctx context.Context, projectID, milestoneID, userID int64) (*model.Milestone, error) {
	var milestone *model.Milestone

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		if err := s.requireActive(ctx, q, projectID, userID); err != nil {
			return err
		}

		existing, err := s.milestoneRepo.GetByID(ctx, q, projectID, milestoneID)
		if err != nil {
			return err
		}
		if existing.IsCompleted {
			return model.ErrAlreadyCompleted
		}

		milestone, err = s.milestoneRepo.SetCompleted(ctx, q, projectID, milestoneID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recomputeProgress(ctx, projectID)
	return milestone, nil
}

// UncompleteMilestone reverts a completed milestone to pending, clearing the
// completer and timestamp.
func (s *MilestoneService) UncompleteMilestone(ctx context.Context, projectID, milestoneID, userID int64) (*model.Milestone, error) {
	var milestone *model.Milestone

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		if err := s.requireActive(ctx, q, projectID, userID); err != nil {
			return err
		}

		existing, err := s.milestoneRepo.GetByID(ctx, q, projectID, milestoneID)
		if err != nil {
			return err
		}
		if !existing.IsCompleted {
			return model.ErrNotCompleted
		}

		milestone, err = s.milestoneRepo.SetUncompleted(ctx, q, projectID, milestoneID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recomputeProgress(ctx, projectID)
	return milestone, nil
}

// DeleteMilestone removes a milestone. Leader-only.
func (s *MilestoneService) DeleteMilestone(ctx context.Context, projectID, milestoneID, userID int64) error {
	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		acting, err := s.collabRepo.GetActive(ctx, q, projectID, userID)
		if err != nil {
			return err
		}
		if acting == nil || acting.Role != model.RoleLeader {
			return model.ErrAccessDenied
		}

		deleted, err := s.milestoneRepo.Delete(ctx, q, projectID, milestoneID)
		if err != nil {
			return err
		}
		if !deleted {
			return model.ErrMilestoneNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recomputeProgress(ctx, projectID)
	return nil
}

// ReorderMilestones applies a whole new ordering in one transaction: either
// every entry lands or none does, so readers never observe a half-applied
// ordering.
func (s *MilestoneService) ReorderMilestones(ctx context.Context, projectID, userID int64, orders []model.MilestoneOrder) ([]model.Milestone, error) {
	if len(orders) == 0 {
		return nil, model.ErrEmptyReorder
	}
	for _, o := range orders {
		if o.ID == 0 || o.OrderIndex == nil {
			return nil, model.ErrInvalidReorder
		}
	}

	var milestones []model.Milestone

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		if err := s.requireActive(ctx, q, projectID, userID); err != nil {
			return err
		}

		for _, o := range orders {
			updated, err := s.milestoneRepo.SetOrderIndex(ctx, q, projectID, o.ID, *o.OrderIndex)
			if err != nil {
				return err
			}
			if !updated {
				return model.ErrMilestoneNotFound
			}
		}

		var err error
		milestones, err = s.milestoneRepo.ListPlain(ctx, q, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

// RecomputeProgress rebuilds and persists the progress percentage for a
// project. Idempotent; also used by the projection workers and the
// reconciliation sweep.
func (s *MilestoneService) RecomputeProgress(ctx context.Context, projectID int64) error {
	total, completed, err := s.milestoneRepo.CountProgress(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	return s.projectRepo.UpdateProgress(ctx, s.db, projectID, ProgressPercentage(completed, total))
}

func (s *MilestoneService) requireActive(ctx context.Context, q database.Querier, projectID, userID int64) error {
	acting, err := s.collabRepo.GetActive(ctx, q, projectID, userID)
	if err != nil {
		return err
	}
	if acting == nil {
		return model.ErrAccessDenied
	}
	return nil
}

// dueDateInPast compares against the start of today, so "due today" is valid.
func (s *MilestoneService) dueDateInPast(due time.Time) bool {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// recomputeProgress is the post-mutation hook. On failure it logs and
// queues a repair event; the milestone mutation has already committed and
// must not be failed retroactively.
func (s *MilestoneService) recomputeProgress(ctx context.Context, projectID int64) {
	if err := s.RecomputeProgress(ctx, projectID); err != nil {
		log.Printf("[MilestoneService] Progress recompute failed: project=%d err=%v", projectID, err)
		if s.publisher != nil {
			if _, pubErr := s.publisher.Publish(ctx, queue.StreamRelationship, queue.NewProgressStaleEvent(projectID)); pubErr != nil {
				log.Printf("[MilestoneService] Failed to publish ProgressStale event: project=%d err=%v", projectID, pubErr)
			}
		}
	}
}
