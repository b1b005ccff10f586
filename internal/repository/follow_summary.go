package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

type followSummaryRepository struct {
	schema string
}

func NewFollowSummaryRepository(schema string) FollowSummaryRepository {
	return &followSummaryRepository{schema: schema}
}

// Recompute rebuilds both counters for userID from the follows table in a
// single upsert. Full recomputation, not a delta: re-running after any
// failure converges on the correct counts.
func (r *followSummaryRepository) Recompute(ctx context.Context, q database.Querier, userID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s.followers_summary (user_id, followers_count, following_count, updated_at)
		VALUES (
			$1,
			(SELECT COUNT(*) FROM %[1]s.follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM %[1]s.follows WHERE follower_id = $1),
			CURRENT_TIMESTAMP
		)
		ON CONFLICT (user_id)
		DO UPDATE SET
			followers_count = EXCLUDED.followers_count,
			following_count = EXCLUDED.following_count,
			updated_at = CURRENT_TIMESTAMP
	`, r.schema)

	if _, err := q.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to recompute follower summary: %w", err)
	}
	return nil
}

func (r *followSummaryRepository) Get(ctx context.Context, q database.Querier, userID int64) (*model.FollowerSummary, error) {
	query := fmt.Sprintf(`
		SELECT user_id, followers_count, following_count, updated_at
		FROM %s.followers_summary
		WHERE user_id = $1
	`, r.schema)

	var summary model.FollowerSummary
	err := q.GetContext(ctx, &summary, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row yet means the user never appeared in an edge.
			return &model.FollowerSummary{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get follower summary: %w", err)
	}
	return &summary, nil
}

func (r *followSummaryRepository) ListUserIDs(ctx context.Context, q database.Querier) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT user_id FROM %[1]s.followers_summary
		UNION
		SELECT follower_id FROM %[1]s.follows
		UNION
		SELECT following_id FROM %[1]s.follows
	`, r.schema)

	var ids []int64
	if err := q.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list summary user ids: %w", err)
	}
	return ids, nil
}
