package service

import (
	"context"
	"log"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/queue"
	"teamawesome_t4/internal/repository"
)

// FollowService maintains the follow graph: edges, private-profile follow
// requests, and the denormalized follower counters. Every mutation runs in
// one transaction so an edge change and its counter recomputes land together
// or not at all.
type FollowService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	requestRepo repository.FollowRequestRepository
	summaryRepo repository.FollowSummaryRepository
	db          database.Querier
	tx          database.TxRunner
	publisher   queue.Publisher
}

func NewFollowService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	requestRepo repository.FollowRequestRepository,
	summaryRepo repository.FollowSummaryRepository,
	db database.Querier,
	tx database.TxRunner,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		requestRepo: requestRepo,
		summaryRepo: summaryRepo,
		db:          db,
		tx:          tx,
		publisher:   publisher,
	}
}

// Follow follows a public target directly or files a follow request against a
// private one. A previously rejected or accepted request row is reused: for a
// private target it flips back to pending, for a public target a rejected row
// falls through to a direct follow.
func (s *FollowService) Follow(ctx context.Context, followerID int64, targetUsername string) (*model.FollowResult, error) {
	var result *model.FollowResult
	var edgeChanged bool
	var targetID int64

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		target, err := s.userRepo.GetByUsername(ctx, q, targetUsername)
		if err != nil {
			return err
		}
		targetID = target.ID

		if followerID == target.ID {
			return model.ErrCannotFollowSelf
		}

		following, err := s.followRepo.Exists(ctx, q, followerID, target.ID)
		if err != nil {
			return err
		}
		if following {
			return model.ErrAlreadyFollowing
		}

		request, err := s.requestRepo.GetByPair(ctx, q, followerID, target.ID)
		if err != nil {
			return err
		}
		if request != nil {
			if request.Status == model.RequestPending {
				return model.ErrRequestAlreadyPending
			}
			// Rejected or accepted: private targets get the row reset to
			// pending (re-request), public targets fall through to a
			// direct follow.
			if !target.IsProfilePublic {
				if err := s.requestRepo.UpsertPending(ctx, q, followerID, target.ID); err != nil {
					return err
				}
				result = requestPendingResult()
				return nil
			}
		}

		if target.IsProfilePublic {
			inserted, err := s.followRepo.Create(ctx, q, followerID, target.ID)
			if err != nil {
				return err
			}
			if !inserted {
				return model.ErrAlreadyFollowing
			}
			if err := s.recomputeBoth(ctx, q, followerID, target.ID); err != nil {
				return err
			}
			edgeChanged = true
			result = &model.FollowResult{IsFollowing: true}
			return nil
		}

		if err := s.requestRepo.UpsertPending(ctx, q, followerID, target.ID); err != nil {
			return err
		}
		result = requestPendingResult()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if edgeChanged {
		s.publishFollowChanged(ctx, followerID, targetID)
	}
	return result, nil
}

// Unfollow removes the edge and any stray request row for the pair, then
// recomputes both endpoints' counters.
func (s *FollowService) Unfollow(ctx context.Context, followerID int64, targetUsername string) (*model.FollowResult, error) {
	var targetID int64

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		target, err := s.userRepo.GetByUsername(ctx, q, targetUsername)
		if err != nil {
			return err
		}
		targetID = target.ID

		deleted, err := s.followRepo.Delete(ctx, q, followerID, target.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return model.ErrNotFollowing
		}

		// The edge may have been created through an accepted request;
		// clear the request row so the pair's state stays consistent.
		if err := s.requestRepo.DeleteByPair(ctx, q, followerID, target.ID); err != nil {
			return err
		}

		return s.recomputeBoth(ctx, q, followerID, target.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishFollowChanged(ctx, followerID, targetID)
	return &model.FollowResult{IsFollowing: false}, nil
}

// RemoveFollower is the unfollow initiated by the target: the current user
// drops someone who follows them.
func (s *FollowService) RemoveFollower(ctx context.Context, currentUserID int64, followerUsername string) error {
	var followerID int64

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		follower, err := s.userRepo.GetByUsername(ctx, q, followerUsername)
		if err != nil {
			return err
		}
		followerID = follower.ID

		deleted, err := s.followRepo.Delete(ctx, q, follower.ID, currentUserID)
		if err != nil {
			return err
		}
		if !deleted {
			return model.ErrNotFollowedBy
		}

		return s.recomputeBoth(ctx, q, follower.ID, currentUserID)
	})
	if err != nil {
		return err
	}

	s.publishFollowChanged(ctx, followerID, currentUserID)
	return nil
}

// CancelRequest deletes a pending request the caller authored.
func (s *FollowService) CancelRequest(ctx context.Context, requesterID int64, targetUsername string) error {
	target, err := s.userRepo.GetByUsername(ctx, s.db, targetUsername)
	if err != nil {
		return err
	}

	deleted, err := s.requestRepo.DeletePendingByPair(ctx, s.db, requesterID, target.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrRequestNotFound
	}
	return nil
}

// RespondToRequest accepts or rejects a pending request addressed to userID.
// Accepting creates the edge and recomputes both counters in the same
// transaction as the status change.
func (s *FollowService) RespondToRequest(ctx context.Context, userID, requestID int64, action string) error {
	if action != "accept" && action != "reject" {
		return model.ErrInvalidRequestAction
	}

	var requesterID int64
	var accepted bool

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		request, err := s.requestRepo.GetPendingForTarget(ctx, q, requestID, userID)
		if err != nil {
			return err
		}
		if request == nil {
			return model.ErrRequestNotFound
		}
		requesterID = request.RequesterID

		status := model.RequestRejected
		if action == "accept" {
			status = model.RequestAccepted
		}
		if err := s.requestRepo.UpdateStatus(ctx, q, requestID, status); err != nil {
			return err
		}

		if action != "accept" {
			return nil
		}

		if _, err := s.followRepo.Create(ctx, q, request.RequesterID, userID); err != nil {
			return err
		}
		accepted = true
		return s.recomputeBoth(ctx, q, request.RequesterID, userID)
	})
	if err != nil {
		return err
	}

	if accepted {
		s.publishFollowChanged(ctx, requesterID, userID)
	}
	return nil
}

// GetPendingRequests lists incoming pending requests for the current user.
func (s *FollowService) GetPendingRequests(ctx context.Context, userID int64) ([]model.PendingFollowRequest, error) {
	return s.requestRepo.ListPendingForTarget(ctx, s.db, userID)
}

// GetFollowers lists the current user's followers.
func (s *FollowService) GetFollowers(ctx context.Context, userID int64) ([]model.FollowUserSummary, error) {
	return s.followRepo.ListFollowers(ctx, s.db, userID, userID)
}

// GetFollowing lists who the current user follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64) ([]model.FollowUserSummary, error) {
	return s.followRepo.ListFollowing(ctx, s.db, userID, userID)
}

// GetUserFollowers lists another user's followers. Private profiles only
// reveal their followers to users who already follow them.
func (s *FollowService) GetUserFollowers(ctx context.Context, viewerID, targetUserID int64) ([]model.FollowUserSummary, error) {
	if err := s.checkListingAccess(ctx, viewerID, targetUserID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, s.db, viewerID, targetUserID)
}

// GetUserFollowing lists who another user follows, gated like GetUserFollowers.
func (s *FollowService) GetUserFollowing(ctx context.Context, viewerID, targetUserID int64) ([]model.FollowUserSummary, error) {
	if err := s.checkListingAccess(ctx, viewerID, targetUserID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, s.db, viewerID, targetUserID)
}

// GetSummary returns the denormalized counters for a user.
func (s *FollowService) GetSummary(ctx context.Context, userID int64) (*model.FollowerSummary, error) {
	return s.summaryRepo.Get(ctx, s.db, userID)
}

// RepairSummaries re-runs the counter recompute for both endpoints of an
// edge. Used by the projection workers; safe to call any number of times.
func (s *FollowService) RepairSummaries(ctx context.Context, followerID, followingID int64) error {
	if err := s.summaryRepo.Recompute(ctx, s.db, followerID); err != nil {
		return err
	}
	return s.summaryRepo.Recompute(ctx, s.db, followingID)
}

// RecomputeSummary rebuilds one user's counters from the edge table.
func (s *FollowService) RecomputeSummary(ctx context.Context, userID int64) error {
	return s.summaryRepo.Recompute(ctx, s.db, userID)
}

// ListTrackedUserIDs returns every user that appears in the follow graph or
// already has a summary row. Used by the reconciliation sweep.
func (s *FollowService) ListTrackedUserIDs(ctx context.Context) ([]int64, error) {
	return s.summaryRepo.ListUserIDs(ctx, s.db)
}

func (s *FollowService) checkListingAccess(ctx context.Context, viewerID, targetUserID int64) error {
	if viewerID == targetUserID {
		return nil
	}

	target, err := s.userRepo.GetByID(ctx, s.db, targetUserID)
	if err != nil {
		return err
	}
	if target.IsProfilePublic {
		return nil
	}

	following, err := s.followRepo.Exists(ctx, s.db, viewerID, targetUserID)
	if err != nil {
		return err
	}
	if !following {
		return model.ErrPrivateProfile
	}
	return nil
}

// recomputeBoth refreshes the summaries of the two endpoints of a mutated
// edge. Each user's row mixes counts from both sides of the graph, so both
// rows must be rebuilt, not just one.
func (s *FollowService) recomputeBoth(ctx context.Context, q database.Querier, followerID, followingID int64) error {
	if err := s.summaryRepo.Recompute(ctx, q, followerID); err != nil {
		return err
	}
	return s.summaryRepo.Recompute(ctx, q, followingID)
}

// publishFollowChanged queues a drift-repair event after commit. Failure to
// publish is logged, never propagated: the transaction already recomputed
// the counters, the event only adds a second chance.
func (s *FollowService) publishFollowChanged(ctx context.Context, followerID, followingID int64) {
	if s.publisher == nil {
		return
	}
	event := queue.NewFollowChangedEvent(followerID, followingID)
	msgID, err := s.publisher.Publish(ctx, queue.StreamRelationship, event)
	if err != nil {
		log.Printf("[FollowService] Failed to publish FollowChanged event: follower=%d following=%d err=%v",
			followerID, followingID, err)
		return
	}
	log.Printf("[FollowService] Published FollowChanged: follower=%d following=%d msgID=%s",
		followerID, followingID, msgID)
}

func requestPendingResult() *model.FollowResult {
	status := model.RequestPending
	return &model.FollowResult{IsFollowing: false, FollowRequestStatus: &status}
}
