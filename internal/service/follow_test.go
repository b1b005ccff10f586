package service

import (
	"context"
	"errors"
	"testing"

	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/queue"
)

func publicUser(id int64, username string) *model.User {
	return &model.User{ID: id, Username: username, IsProfilePublic: true}
}

func privateUser(id int64, username string) *model.User {
	return &model.User{ID: id, Username: username, IsProfilePublic: false}
}

func newFollowService(users *mockUserRepo, follows *mockFollowRepo, requests *mockRequestRepo, summaries *mockSummaryRepo, pub queue.Publisher) *FollowService {
	return NewFollowService(users, follows, requests, summaries, nil, &fakeTxRunner{}, pub)
}

func TestFollowService_Follow_PublicTarget(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(2, username), nil
		},
	}
	follows := &mockFollowRepo{}
	requests := &mockRequestRepo{}
	summaries := &mockSummaryRepo{}
	pub := &mockPublisher{}

	svc := newFollowService(users, follows, requests, summaries, pub)

	result, err := svc.Follow(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !result.IsFollowing {
		t.Error("expected IsFollowing to be true for a public target")
	}
	if result.FollowRequestStatus != nil {
		t.Errorf("expected no request status, got %v", *result.FollowRequestStatus)
	}

	if len(follows.createCalls) != 1 {
		t.Fatalf("expected 1 edge insert, got %d", len(follows.createCalls))
	}
	if follows.createCalls[0] != [2]int64{1, 2} {
		t.Errorf("edge = %v, want [1 2]", follows.createCalls[0])
	}

	// Both endpoints' counters are rebuilt inside the transaction
	if len(summaries.recomputeCalls) != 2 {
		t.Fatalf("expected 2 summary recomputes, got %d", len(summaries.recomputeCalls))
	}

	if len(pub.events) != 1 || pub.events[0].Type != queue.EventFollowChanged {
		t.Errorf("expected one FollowChanged event, got %v", pub.events)
	}
}

func TestFollowService_Follow_PrivateTargetCreatesRequest(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return privateUser(2, username), nil
		},
	}
	follows := &mockFollowRepo{}
	requests := &mockRequestRepo{}
	summaries := &mockSummaryRepo{}
	pub := &mockPublisher{}

	svc := newFollowService(users, follows, requests, summaries, pub)

	result, err := svc.Follow(context.Background(), 1, "carol")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.IsFollowing {
		t.Error("expected IsFollowing to be false for a private target")
	}
	if result.FollowRequestStatus == nil || *result.FollowRequestStatus != model.RequestPending {
		t.Errorf("expected pending request status, got %v", result.FollowRequestStatus)
	}

	if len(follows.createCalls) != 0 {
		t.Error("no edge should be created for a private target")
	}
	if len(requests.upsertCalls) != 1 {
		t.Fatalf("expected 1 request upsert, got %d", len(requests.upsertCalls))
	}
	if len(summaries.recomputeCalls) != 0 {
		t.Error("counters must not change while the request is pending")
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published while the request is pending")
	}
}

func TestFollowService_Follow_Self(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(1, username), nil
		},
	}
	svc := newFollowService(users, &mockFollowRepo{}, &mockRequestRepo{}, &mockSummaryRepo{}, nil)

	_, err := svc.Follow(context.Background(), 1, "alice")
	if !errors.Is(err, model.ErrCannotFollowSelf) {
		t.Fatalf("expected ErrCannotFollowSelf, got: %v", err)
	}
}

func TestFollowService_Follow_AlreadyFollowing(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(2, username), nil
		},
	}
	follows := &mockFollowRepo{
		existsFn: func(followerID, followingID int64) (bool, error) {
			return true, nil
		},
	}
	svc := newFollowService(users, follows, &mockRequestRepo{}, &mockSummaryRepo{}, nil)

	_, err := svc.Follow(context.Background(), 1, "bob")
	if !errors.Is(err, model.ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got: %v", err)
	}
}

func TestFollowService_Follow_PendingRequestRejected(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return privateUser(2, username), nil
		},
	}
	requests := &mockRequestRepo{
		getByPairFn: func(requesterID, targetID int64) (*model.FollowRequest, error) {
			return &model.FollowRequest{ID: 7, RequesterID: requesterID, TargetID: targetID, Status: model.RequestPending}, nil
		},
	}
	svc := newFollowService(users, &mockFollowRepo{}, requests, &mockSummaryRepo{}, nil)

	_, err := svc.Follow(context.Background(), 1, "carol")
	if !errors.Is(err, model.ErrRequestAlreadyPending) {
		t.Fatalf("expected ErrRequestAlreadyPending, got: %v", err)
	}
}

func TestFollowService_Follow_RejectedRequestReusedForPrivate(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return privateUser(2, username), nil
		},
	}
	requests := &mockRequestRepo{
		getByPairFn: func(requesterID, targetID int64) (*model.FollowRequest, error) {
			return &model.FollowRequest{ID: 7, RequesterID: requesterID, TargetID: targetID, Status: model.RequestRejected}, nil
		},
	}
	svc := newFollowService(users, &mockFollowRepo{}, requests, &mockSummaryRepo{}, nil)

	result, err := svc.Follow(context.Background(), 1, "carol")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.FollowRequestStatus == nil || *result.FollowRequestStatus != model.RequestPending {
		t.Errorf("expected the rejected row to flip back to pending, got %v", result.FollowRequestStatus)
	}
	if len(requests.upsertCalls) != 1 {
		t.Errorf("expected the existing row to be reset via upsert, got %d calls", len(requests.upsertCalls))
	}
}

func TestFollowService_Follow_RejectedRequestFallsThroughForPublic(t *testing.T) {
	// Target was private, rejected the request, then went public: a new
	// follow attempt lands as a direct edge.
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(2, username), nil
		},
	}
	requests := &mockRequestRepo{
		getByPairFn: func(requesterID, targetID int64) (*model.FollowRequest, error) {
			return &model.FollowRequest{ID: 7, RequesterID: requesterID, TargetID: targetID, Status: model.RequestRejected}, nil
		},
	}
	follows := &mockFollowRepo{}
	svc := newFollowService(users, follows, requests, &mockSummaryRepo{}, nil)

	result, err := svc.Follow(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !result.IsFollowing {
		t.Error("expected a direct follow once the target is public")
	}
	if len(requests.upsertCalls) != 0 {
		t.Error("the request row must not be reset for a public target")
	}
	if len(follows.createCalls) != 1 {
		t.Errorf("expected 1 edge insert, got %d", len(follows.createCalls))
	}
}

func TestFollowService_Unfollow(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(2, username), nil
		},
	}
	follows := &mockFollowRepo{}
	requests := &mockRequestRepo{}
	summaries := &mockSummaryRepo{}
	pub := &mockPublisher{}

	svc := newFollowService(users, follows, requests, summaries, pub)

	result, err := svc.Unfollow(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.IsFollowing {
		t.Error("expected IsFollowing to be false after unfollow")
	}

	if len(follows.deleteCalls) != 1 {
		t.Fatalf("expected 1 edge delete, got %d", len(follows.deleteCalls))
	}
	// The request row for the pair is cleared along with the edge
	if len(requests.deleteByPairCalls) != 1 {
		t.Errorf("expected the request row to be cleared, got %d calls", len(requests.deleteByPairCalls))
	}
	if len(summaries.recomputeCalls) != 2 {
		t.Errorf("expected 2 summary recomputes, got %d", len(summaries.recomputeCalls))
	}
	if len(pub.events) != 1 {
		t.Errorf("expected one FollowChanged event, got %d", len(pub.events))
	}
}

func TestFollowService_Unfollow_NotFollowing(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(2, username), nil
		},
	}
	follows := &mockFollowRepo{
		deleteFn: func(followerID, followingID int64) (bool, error) {
			return false, nil
		},
	}
	summaries := &mockSummaryRepo{}
	svc := newFollowService(users, follows, &mockRequestRepo{}, summaries, nil)

	_, err := svc.Unfollow(context.Background(), 1, "bob")
	if !errors.Is(err, model.ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got: %v", err)
	}
	if len(summaries.recomputeCalls) != 0 {
		t.Error("counters must not change when no edge was removed")
	}
}

func TestFollowService_RemoveFollower(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(3, username), nil
		},
	}
	follows := &mockFollowRepo{}
	summaries := &mockSummaryRepo{}
	svc := newFollowService(users, follows, &mockRequestRepo{}, summaries, nil)

	if err := svc.RemoveFollower(context.Background(), 1, "dave"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The edge points from the follower to the current user
	if follows.deleteCalls[0] != [2]int64{3, 1} {
		t.Errorf("deleted edge = %v, want [3 1]", follows.deleteCalls[0])
	}
	if len(summaries.recomputeCalls) != 2 {
		t.Errorf("expected 2 summary recomputes, got %d", len(summaries.recomputeCalls))
	}
}

func TestFollowService_CancelRequest_NotFound(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return privateUser(2, username), nil
		},
	}
	requests := &mockRequestRepo{deletePendingOK: false}
	svc := newFollowService(users, &mockFollowRepo{}, requests, &mockSummaryRepo{}, nil)

	err := svc.CancelRequest(context.Background(), 1, "carol")
	if !errors.Is(err, model.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got: %v", err)
	}
}

func TestFollowService_RespondToRequest_Accept(t *testing.T) {
	requests := &mockRequestRepo{
		getPendingForTargetFn: func(requestID, targetID int64) (*model.FollowRequest, error) {
			return &model.FollowRequest{ID: requestID, RequesterID: 5, TargetID: targetID, Status: model.RequestPending}, nil
		},
	}
	follows := &mockFollowRepo{}
	summaries := &mockSummaryRepo{}
	pub := &mockPublisher{}
	svc := newFollowService(&mockUserRepo{}, follows, requests, summaries, pub)

	if err := svc.RespondToRequest(context.Background(), 2, 10, "accept"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if requests.statusUpdates[10] != model.RequestAccepted {
		t.Errorf("request status = %q, want accepted", requests.statusUpdates[10])
	}
	if len(follows.createCalls) != 1 || follows.createCalls[0] != [2]int64{5, 2} {
		t.Errorf("edge calls = %v, want [[5 2]]", follows.createCalls)
	}
	if len(summaries.recomputeCalls) != 2 {
		t.Errorf("expected 2 summary recomputes, got %d", len(summaries.recomputeCalls))
	}
	if len(pub.events) != 1 {
		t.Errorf("expected one FollowChanged event, got %d", len(pub.events))
	}
}

func TestFollowService_RespondToRequest_Reject(t *testing.T) {
	requests := &mockRequestRepo{
		getPendingForTargetFn: func(requestID, targetID int64) (*model.FollowRequest, error) {
			return &model.FollowRequest{ID: requestID, RequesterID: 5, TargetID: targetID, Status: model.RequestPending}, nil
		},
	}
	follows := &mockFollowRepo{}
	summaries := &mockSummaryRepo{}
	svc := newFollowService(&mockUserRepo{}, follows, requests, summaries, nil)

	if err := svc.RespondToRequest(context.Background(), 2, 10, "reject"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if requests.statusUpdates[10] != model.RequestRejected {
		t.Errorf("request status = %q, want rejected", requests.statusUpdates[10])
	}
	if len(follows.createCalls) != 0 {
		t.Error("rejecting must not create an edge")
	}
	if len(summaries.recomputeCalls) != 0 {
		t.Error("rejecting must not touch counters")
	}
}

func TestFollowService_RespondToRequest_InvalidAction(t *testing.T) {
	tx := &fakeTxRunner{}
	svc := NewFollowService(&mockUserRepo{}, &mockFollowRepo{}, &mockRequestRepo{}, &mockSummaryRepo{}, nil, tx, nil)

	err := svc.RespondToRequest(context.Background(), 2, 10, "maybe")
	if !errors.Is(err, model.ErrInvalidRequestAction) {
		t.Fatalf("expected ErrInvalidRequestAction, got: %v", err)
	}
	if tx.calls != 0 {
		t.Error("invalid action must be rejected before any transaction starts")
	}
}

func TestFollowService_RespondToRequest_WrongTarget(t *testing.T) {
	requests := &mockRequestRepo{
		getPendingForTargetFn: func(requestID, targetID int64) (*model.FollowRequest, error) {
			return nil, nil
		},
	}
	svc := newFollowService(&mockUserRepo{}, &mockFollowRepo{}, requests, &mockSummaryRepo{}, nil)

	err := svc.RespondToRequest(context.Background(), 2, 10, "accept")
	if !errors.Is(err, model.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got: %v", err)
	}
}

func TestFollowService_PublishFailureDoesNotFailFollow(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(username string) (*model.User, error) {
			return publicUser(2, username), nil
		},
	}
	pub := &mockPublisher{err: errors.New("redis down")}
	svc := newFollowService(users, &mockFollowRepo{}, &mockRequestRepo{}, &mockSummaryRepo{}, pub)

	result, err := svc.Follow(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("publish failure must not fail the committed follow, got: %v", err)
	}
	if !result.IsFollowing {
		t.Error("expected IsFollowing despite publish failure")
	}
}

func TestFollowService_ListingAccess(t *testing.T) {
	// Follower and following listings share one gate: self always passes,
	// public targets are open, private targets require an existing edge from
	// the viewer.
	cases := []struct {
		name          string
		viewerID      int64
		targetPublic  bool
		viewerFollows bool
		wantErr       error
	}{
		{name: "self view of private profile", viewerID: 2, targetPublic: false},
		{name: "public target", viewerID: 1, targetPublic: true},
		{name: "private target with follow edge", viewerID: 1, targetPublic: false, viewerFollows: true},
		{name: "private target without follow edge", viewerID: 1, targetPublic: false, wantErr: model.ErrPrivateProfile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserRepo{
				getByIDFn: func(id int64) (*model.User, error) {
					return &model.User{ID: id, IsProfilePublic: tc.targetPublic}, nil
				},
			}
			follows := &mockFollowRepo{
				existsFn: func(followerID, followingID int64) (bool, error) {
					return tc.viewerFollows, nil
				},
			}
			svc := newFollowService(users, follows, &mockRequestRepo{}, &mockSummaryRepo{}, nil)

			_, followersErr := svc.GetUserFollowers(context.Background(), tc.viewerID, 2)
			if !errors.Is(followersErr, tc.wantErr) {
				t.Errorf("GetUserFollowers: expected %v, got: %v", tc.wantErr, followersErr)
			}
			_, followingErr := svc.GetUserFollowing(context.Background(), tc.viewerID, 2)
			if !errors.Is(followingErr, tc.wantErr) {
				t.Errorf("GetUserFollowing: expected %v, got: %v", tc.wantErr, followingErr)
			}
		})
	}
}
