package repository

import (
	"context"
	"time"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

// Every method takes a database.Querier so the same call can run against the
// pool or inside a transaction. Guard reads that protect a mutation (duplicate
// checks, last-leader counts) must be issued on the transaction that performs
// the mutation.

type UserRepository interface {
	Create(ctx context.Context, q database.Querier, user *model.User) error
	GetByID(ctx context.Context, q database.Querier, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, q database.Querier, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, q database.Querier, username string) (bool, error)
	ExistsByEmail(ctx context.Context, q database.Querier, email string) (bool, error)
	UpdateProfile(ctx context.Context, q database.Querier, id int64, req model.UpdateProfileRequest) (*model.User, error)
	UpdatePicture(ctx context.Context, q database.Querier, id int64, url, key *string) error
	Search(ctx context.Context, q database.Querier, query string, limit int) ([]model.UserSummary, error)
}

type FollowRepository interface {
	// Create inserts the edge; returns false when it already existed.
	Create(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error)
	// Delete removes the edge; returns false when there was none.
	Delete(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error)
	Exists(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error)
	// ListFollowers/ListFollowing annotate each row with the viewer's own
	// follow edge and any request status toward the listed user.
	ListFollowers(ctx context.Context, q database.Querier, viewerID, userID int64) ([]model.FollowUserSummary, error)
	ListFollowing(ctx context.Context, q database.Querier, viewerID, userID int64) ([]model.FollowUserSummary, error)
}

type FollowRequestRepository interface {
	// GetByPair returns nil (no error) when no row exists for the pair.
	GetByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) (*model.FollowRequest, error)
	// GetPendingForTarget returns the pending request with the given id
	// addressed to targetID, or nil when absent.
	GetPendingForTarget(ctx context.Context, q database.Querier, requestID, targetID int64) (*model.FollowRequest, error)
	// UpsertPending inserts or resets the single row for the pair to pending.
	UpsertPending(ctx context.Context, q database.Querier, requesterID, targetID int64) error
	UpdateStatus(ctx context.Context, q database.Querier, requestID int64, status string) error
	// DeleteByPair clears any request row for the pair regardless of status.
	DeleteByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) error
	// DeletePendingByPair deletes only a pending row; returns false when none.
	DeletePendingByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) (bool, error)
	ListPendingForTarget(ctx context.Context, q database.Querier, targetID int64) ([]model.PendingFollowRequest, error)
}

type FollowSummaryRepository interface {
	// Recompute rebuilds both counters for one user from the follows table
	// and upserts the summary row. Idempotent; self-heals any drift.
	Recompute(ctx context.Context, q database.Querier, userID int64) error
	Get(ctx context.Context, q database.Querier, userID int64) (*model.FollowerSummary, error)
	// ListUserIDs returns every user that appears in the follow graph or
	// already has a summary row; used by the reconciliation sweep.
	ListUserIDs(ctx context.Context, q database.Querier) ([]int64, error)
}

type CollaboratorRepository interface {
	// GetMembership returns the row for the pair in any status, nil when none.
	GetMembership(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error)
	GetActive(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error)
	// Invite inserts a new Invited row, or resets an existing Inactive row
	// back to Invited with the new role and inviter.
	Invite(ctx context.Context, q database.Querier, projectID, userID int64, role string, invitedBy int64) (*model.Collaborator, error)
	// InsertActive bootstraps a membership directly in Active status
	// (creation-time leader bootstrap).
	InsertActive(ctx context.Context, q database.Querier, projectID, userID int64, role string) (*model.Collaborator, error)
	UpdateRole(ctx context.Context, q database.Querier, projectID, userID int64, role string) (*model.Collaborator, error)
	// Deactivate soft-deletes an Active membership.
	Deactivate(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error)
	// AcceptInvite flips an Invited row to Active and stamps joined_at.
	AcceptInvite(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error)
	// DeleteInvite removes an Invited row; returns false when none existed.
	DeleteInvite(ctx context.Context, q database.Querier, projectID, userID int64) (bool, error)
	CountActiveLeaders(ctx context.Context, q database.Querier, projectID int64) (int, error)
	IsActiveLeader(ctx context.Context, q database.Querier, projectID, userID int64) (bool, error)
	// ListActive orders Leaders first, then by join time ascending.
	ListActive(ctx context.Context, q database.Querier, projectID int64) ([]model.CollaboratorDetail, error)
	ListInvitesForUser(ctx context.Context, q database.Querier, userID int64) ([]model.Invitation, error)
}

type MilestoneRepository interface {
	GetByID(ctx context.Context, q database.Querier, projectID, milestoneID int64) (*model.Milestone, error)
	List(ctx context.Context, q database.Querier, projectID int64) ([]model.MilestoneDetail, error)
	ListPlain(ctx context.Context, q database.Querier, projectID int64) ([]model.Milestone, error)
	NextOrderIndex(ctx context.Context, q database.Querier, projectID int64) (int, error)
	Insert(ctx context.Context, q database.Querier, projectID int64, name string, description *string, dueDate time.Time, orderIndex int) (*model.Milestone, error)
	// Update applies a typed patch; only allow-listed columns are written.
	Update(ctx context.Context, q database.Querier, projectID, milestoneID int64, patch model.MilestonePatch) (*model.Milestone, error)
	Delete(ctx context.Context, q database.Querier, projectID, milestoneID int64) (bool, error)
	SetCompleted(ctx context.Context, q database.Querier, projectID, milestoneID, completedBy int64) (*model.Milestone, error)
	SetUncompleted(ctx context.Context, q database.Querier, projectID, milestoneID int64) (*model.Milestone, error)
	SetOrderIndex(ctx context.Context, q database.Querier, projectID, milestoneID int64, orderIndex int) (bool, error)
	// CountProgress returns total and completed milestone counts.
	CountProgress(ctx context.Context, q database.Querier, projectID int64) (total int, completed int, err error)
}

type ProjectRepository interface {
	// CreateSwinburne inserts the base project row and the academic variant
	// row; must run inside the same transaction as the leader bootstrap.
	CreateSwinburne(ctx context.Context, q database.Querier, ownerID int64, req model.CreateSwinburneProjectRequest) (*model.SwinburneProject, error)
	GetByID(ctx context.Context, q database.Querier, projectID int64) (*model.SwinburneProject, error)
	UpdateProgress(ctx context.Context, q database.Querier, projectID int64, percentage int) error
	// ListIDs returns all Swinburne project ids; used by the reconciliation sweep.
	ListIDs(ctx context.Context, q database.Querier) ([]int64, error)
}
