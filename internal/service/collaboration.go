package service

import (
	"context"
	"strings"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/repository"
)

// CollaborationService manages project membership: invitations, role
// changes, and removals, under the rule that a project with any active
// members always keeps at least one active Leader. Guard reads (leader
// counts, duplicate checks) run inside the same transaction as the mutation
// they protect.
type CollaborationService struct {
	userRepo    repository.UserRepository
	collabRepo  repository.CollaboratorRepository
	projectRepo repository.ProjectRepository
	db          database.Querier
	tx          database.TxRunner
}

func NewCollaborationService(
	userRepo repository.UserRepository,
	collabRepo repository.CollaboratorRepository,
	projectRepo repository.ProjectRepository,
	db database.Querier,
	tx database.TxRunner,
) *CollaborationService {
	return &CollaborationService{
		userRepo:    userRepo,
		collabRepo:  collabRepo,
		projectRepo: projectRepo,
		db:          db,
		tx:          tx,
	}
}

// isSwinburneEmail enforces the academic-project policy: collaborators must
// hold a university address.
func isSwinburneEmail(email string) bool {
	return strings.HasSuffix(email, "@swin.edu.au") || strings.HasSuffix(email, "@student.swin.edu.au")
}

// AddCollaborator invites targetUserID onto the project. Leaders may always
// invite; other active members only when the project's collaboration status
// is Open. The Leader role is not assignable here - it comes from the
// creation-time bootstrap or an explicit promotion.
func (s *CollaborationService) AddCollaborator(ctx context.Context, projectID, actingUserID, targetUserID int64, role string) (*model.Collaborator, error) {
	if !model.ValidRole(role) || role == model.RoleLeader {
		return nil, model.ErrInvalidRole
	}

	var collaborator *model.Collaborator

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		acting, err := s.collabRepo.GetActive(ctx, q, projectID, actingUserID)
		if err != nil {
			return err
		}
		if acting == nil {
			return model.ErrAccessDenied
		}

		project, err := s.projectRepo.GetByID(ctx, q, projectID)
		if err != nil {
			return err
		}
		if acting.Role != model.RoleLeader && project.CollaborationStatus != model.CollaborationOpen {
			return model.ErrAccessDenied
		}

		target, err := s.userRepo.GetByID(ctx, q, targetUserID)
		if err != nil {
			return err
		}
		if !isSwinburneEmail(target.Email) {
			return model.ErrNotSwinburneEmail
		}

		existing, err := s.collabRepo.GetMembership(ctx, q, projectID, targetUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			switch existing.Status {
			case model.CollaboratorActive:
				return model.ErrAlreadyCollaborator
			case model.CollaboratorInvited:
				return model.ErrAlreadyInvited
			}
		}

		collaborator, err = s.collabRepo.Invite(ctx, q, projectID, targetUserID, role, actingUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return collaborator, nil
}

// UpdateRole changes an active member's role. Demoting the only active
// Leader is refused; the leader count is read in the same transaction as the
// update so two concurrent demotions cannot both pass the guard.
func (s *CollaborationService) UpdateRole(ctx context.Context, projectID, actingUserID, targetUserID int64, newRole string) (*model.Collaborator, error) {
	if !model.ValidRole(newRole) {
		return nil, model.ErrInvalidRole
	}

	var collaborator *model.Collaborator

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		isLeader, err := s.collabRepo.IsActiveLeader(ctx, q, projectID, actingUserID)
		if err != nil {
			return err
		}
		if !isLeader {
			return model.ErrAccessDenied
		}

		if newRole != model.RoleLeader {
			leaders, err := s.collabRepo.CountActiveLeaders(ctx, q, projectID)
			if err != nil {
				return err
			}
			targetIsLeader, err := s.collabRepo.IsActiveLeader(ctx, q, projectID, targetUserID)
			if err != nil {
				return err
			}
			if leaders == 1 && targetIsLeader {
				return model.ErrLastLeader
			}
		}

		collaborator, err = s.collabRepo.UpdateRole(ctx, q, projectID, targetUserID, newRole)
		return err
	})
	if err != nil {
		return nil, err
	}
	return collaborator, nil
}

// RemoveCollaborator deactivates a membership. Allowed for leaders and for
// self-removal; the last active Leader can never be removed. The row is kept
// as Inactive so the membership history survives.
func (s *CollaborationService) RemoveCollaborator(ctx context.Context, projectID, actingUserID, targetUserID int64) (*model.Collaborator, error) {
	var collaborator *model.Collaborator

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		if actingUserID != targetUserID {
			isLeader, err := s.collabRepo.IsActiveLeader(ctx, q, projectID, actingUserID)
			if err != nil {
				return err
			}
			if !isLeader {
				return model.ErrAccessDenied
			}
		}

		target, err := s.collabRepo.GetActive(ctx, q, projectID, targetUserID)
		if err != nil {
			return err
		}
		if target == nil {
			return model.ErrCollaboratorNotFound
		}

		if target.Role == model.RoleLeader {
			leaders, err := s.collabRepo.CountActiveLeaders(ctx, q, projectID)
			if err != nil {
				return err
			}
			if leaders == 1 {
				return model.ErrLastLeader
			}
		}

		collaborator, err = s.collabRepo.Deactivate(ctx, q, projectID, targetUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return collaborator, nil
}

// AcceptInvite flips the caller's pending invitation to Active and stamps
// the join time.
func (s *CollaborationService) AcceptInvite(ctx context.Context, projectID, userID int64) (*model.Collaborator, error) {
	return s.collabRepo.AcceptInvite(ctx, s.db, projectID, userID)
}

// RejectInvite deletes the caller's pending invitation. Unlike removal of an
// active member there is no row left behind; the original product treated a
// rejected invite as if it never happened.
func (s *CollaborationService) RejectInvite(ctx context.Context, projectID, userID int64) error {
	deleted, err := s.collabRepo.DeleteInvite(ctx, s.db, projectID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrInviteNotFound
	}
	return nil
}

// GetProjectCollaborators lists active members, Leaders first then by join
// time. Only active members may look.
func (s *CollaborationService) GetProjectCollaborators(ctx context.Context, projectID, userID int64) ([]model.CollaboratorDetail, error) {
	acting, err := s.collabRepo.GetActive(ctx, s.db, projectID, userID)
	if err != nil {
		return nil, err
	}
	if acting == nil {
		return nil, model.ErrAccessDenied
	}
	return s.collabRepo.ListActive(ctx, s.db, projectID)
}

// GetUserInvites lists the caller's pending invitations with project and
// inviter details.
func (s *CollaborationService) GetUserInvites(ctx context.Context, userID int64) ([]model.Invitation, error) {
	return s.collabRepo.ListInvitesForUser(ctx, s.db, userID)
}
