package repository

import (
	"context"
	"fmt"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

type followRepository struct {
	schema string
}

func NewFollowRepository(schema string) FollowRepository {
	return &followRepository{schema: schema}
}

func (r *followRepository) Create(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s.follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, r.schema)

	result, err := q.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.follows WHERE follower_id = $1 AND following_id = $2`, r.schema)

	result, err := q.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, q database.Querier, followerID, followingID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s.follows WHERE follower_id = $1 AND following_id = $2)`, r.schema)

	var exists bool
	if err := q.GetContext(ctx, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// ListFollowers returns the users following userID, each annotated with
// whether the viewer follows them and any request status between viewer and
// them. The correctness of the two LEFT JOINs relies on follows and
// follow_requests staying mutually consistent.
func (r *followRepository) ListFollowers(ctx context.Context, q database.Querier, viewerID, userID int64) ([]model.FollowUserSummary, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.first_name, u.last_name, u.user_name, u.bio, u.profile_picture_url,
		       f.followed_at, u.is_profile_public,
		       CASE WHEN f2.follower_id IS NOT NULL THEN true ELSE false END AS is_following,
		       fr.status AS follow_request_status
		FROM %[1]s.follows f
		JOIN %[1]s.users u ON f.follower_id = u.id
		LEFT JOIN %[1]s.follows f2 ON f2.following_id = u.id AND f2.follower_id = $1
		LEFT JOIN %[1]s.follow_requests fr ON fr.target_id = u.id AND fr.requester_id = $1
		WHERE f.following_id = $2
		ORDER BY f.followed_at DESC
	`, r.schema)

	var users []model.FollowUserSummary
	if err := q.SelectContext(ctx, &users, query, viewerID, userID); err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

// ListFollowing returns the users that userID follows, annotated the same way
// as ListFollowers.
func (r *followRepository) ListFollowing(ctx context.Context, q database.Querier, viewerID, userID int64) ([]model.FollowUserSummary, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.first_name, u.last_name, u.user_name, u.bio, u.profile_picture_url,
		       f.followed_at, u.is_profile_public,
		       CASE WHEN f2.follower_id IS NOT NULL THEN true ELSE false END AS is_following,
		       fr.status AS follow_request_status
		FROM %[1]s.follows f
		JOIN %[1]s.users u ON f.following_id = u.id
		LEFT JOIN %[1]s.follows f2 ON f2.following_id = u.id AND f2.follower_id = $1
		LEFT JOIN %[1]s.follow_requests fr ON fr.target_id = u.id AND fr.requester_id = $1
		WHERE f.follower_id = $2
		ORDER BY f.followed_at DESC
	`, r.schema)

	var users []model.FollowUserSummary
	if err := q.SelectContext(ctx, &users, query, viewerID, userID); err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}
