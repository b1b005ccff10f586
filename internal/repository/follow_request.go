package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

type followRequestRepository struct {
	schema string
}

func NewFollowRequestRepository(schema string) FollowRequestRepository {
	return &followRequestRepository{schema: schema}
}

func (r *followRequestRepository) GetByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) (*model.FollowRequest, error) {
	query := fmt.Sprintf(`
		SELECT id, requester_id, target_id, status, requested_at
		FROM %s.follow_requests
		WHERE requester_id = $1 AND target_id = $2
	`, r.schema)

	var req model.FollowRequest
	err := q.GetContext(ctx, &req, query, requesterID, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get follow request: %w", err)
	}
	return &req, nil
}

func (r *followRequestRepository) GetPendingForTarget(ctx context.Context, q database.Querier, requestID, targetID int64) (*model.FollowRequest, error) {
	query := fmt.Sprintf(`
		SELECT id, requester_id, target_id, status, requested_at
		FROM %s.follow_requests
		WHERE id = $1 AND target_id = $2 AND status = $3
	`, r.schema)

	var req model.FollowRequest
	err := q.GetContext(ctx, &req, query, requestID, targetID, model.RequestPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending follow request: %w", err)
	}
	return &req, nil
}

// UpsertPending keeps exactly one row per ordered pair: a fresh request
// inserts, a re-request after rejection or acceptance resets the same row.
func (r *followRequestRepository) UpsertPending(ctx context.Context, q database.Querier, requesterID, targetID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.follow_requests (requester_id, target_id, status, requested_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (requester_id, target_id)
		DO UPDATE SET status = EXCLUDED.status, requested_at = CURRENT_TIMESTAMP
	`, r.schema)

	if _, err := q.ExecContext(ctx, query, requesterID, targetID, model.RequestPending); err != nil {
		return fmt.Errorf("failed to upsert follow request: %w", err)
	}
	return nil
}

func (r *followRequestRepository) UpdateStatus(ctx context.Context, q database.Querier, requestID int64, status string) error {
	query := fmt.Sprintf(`UPDATE %s.follow_requests SET status = $1 WHERE id = $2`, r.schema)

	result, err := q.ExecContext(ctx, query, status, requestID)
	if err != nil {
		return fmt.Errorf("failed to update follow request status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrRequestNotFound
	}
	return nil
}

func (r *followRequestRepository) DeleteByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s.follow_requests WHERE requester_id = $1 AND target_id = $2`, r.schema)

	if _, err := q.ExecContext(ctx, query, requesterID, targetID); err != nil {
		return fmt.Errorf("failed to delete follow request: %w", err)
	}
	return nil
}

func (r *followRequestRepository) DeletePendingByPair(ctx context.Context, q database.Querier, requesterID, targetID int64) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.follow_requests
		WHERE requester_id = $1 AND target_id = $2 AND status = $3
	`, r.schema)

	result, err := q.ExecContext(ctx, query, requesterID, targetID, model.RequestPending)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending follow request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *followRequestRepository) ListPendingForTarget(ctx context.Context, q database.Querier, targetID int64) ([]model.PendingFollowRequest, error) {
	query := fmt.Sprintf(`
		SELECT fr.id, fr.requester_id, u.first_name, u.last_name, u.user_name,
		       u.profile_picture_url, fr.requested_at
		FROM %[1]s.follow_requests fr
		JOIN %[1]s.users u ON fr.requester_id = u.id
		WHERE fr.target_id = $1 AND fr.status = $2
		ORDER BY fr.requested_at DESC
	`, r.schema)

	var requests []model.PendingFollowRequest
	if err := q.SelectContext(ctx, &requests, query, targetID, model.RequestPending); err != nil {
		return nil, fmt.Errorf("failed to list pending follow requests: %w", err)
	}
	return requests, nil
}
