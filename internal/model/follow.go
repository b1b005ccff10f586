package model

import (
	"errors"
	"time"
)

// Follow request statuses. A single row per (requester, target) pair is
// reused across reject/re-request cycles rather than appending history, so
// there is no audit trail for rejected-then-reaccepted cycles. An
// audit-grade variant would insert a new row per cycle.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Follow is a directed edge: follower is following the other user.
type Follow struct {
	FollowerID  int64     `db:"follower_id" json:"follower_id"`
	FollowingID int64     `db:"following_id" json:"following_id"`
	FollowedAt  time.Time `db:"followed_at" json:"followed_at"`
}

// FollowRequest is a pending/resolved request to follow a private profile.
type FollowRequest struct {
	ID          int64     `db:"id" json:"id"`
	RequesterID int64     `db:"requester_id" json:"requester_id"`
	TargetID    int64     `db:"target_id" json:"target_id"`
	Status      string    `db:"status" json:"status"`
	RequestedAt time.Time `db:"requested_at" json:"requested_at"`
}

// FollowResult tells the caller what state a follow attempt landed in.
type FollowResult struct {
	IsFollowing         bool    `json:"is_following"`
	FollowRequestStatus *string `json:"follow_request_status"`
}

// FollowUserSummary is one entry in a followers/following listing, annotated
// with the viewer's relationship to the listed user.
type FollowUserSummary struct {
	ID                  int64     `db:"id" json:"id"`
	FirstName           string    `db:"first_name" json:"first_name"`
	LastName            string    `db:"last_name" json:"last_name"`
	Username            string    `db:"user_name" json:"user_name"`
	Bio                 *string   `db:"bio" json:"bio"`
	ProfilePictureURL   *string   `db:"profile_picture_url" json:"profile_picture_url"`
	FollowedAt          time.Time `db:"followed_at" json:"followed_at"`
	IsProfilePublic     bool      `db:"is_profile_public" json:"is_profile_public"`
	IsFollowing         bool      `db:"is_following" json:"is_following"`
	FollowRequestStatus *string   `db:"follow_request_status" json:"follow_request_status"`
}

// PendingFollowRequest is one entry in the current user's incoming request list.
type PendingFollowRequest struct {
	ID                int64     `db:"id" json:"id"`
	RequesterID       int64     `db:"requester_id" json:"requester_id"`
	FirstName         string    `db:"first_name" json:"first_name"`
	LastName          string    `db:"last_name" json:"last_name"`
	Username          string    `db:"user_name" json:"user_name"`
	ProfilePictureURL *string   `db:"profile_picture_url" json:"profile_picture_url"`
	RequestedAt       time.Time `db:"requested_at" json:"requested_at"`
}

// FollowerSummary holds the denormalized per-user counters. Both counts are
// recomputed from the follows table, never patched incrementally.
type FollowerSummary struct {
	UserID         int64     `db:"user_id" json:"user_id"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

var (
	ErrCannotFollowSelf      = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing      = errors.New("you are already following this user")
	ErrNotFollowing          = errors.New("not following this user")
	ErrNotFollowedBy         = errors.New("this user is not following you")
	ErrRequestAlreadyPending = errors.New("follow request already pending")
	ErrRequestNotFound       = errors.New("follow request not found or already processed")
	ErrInvalidRequestAction  = errors.New("action must be accept or reject")
	ErrPrivateProfile        = errors.New("cannot view relationships of a private profile")
)
