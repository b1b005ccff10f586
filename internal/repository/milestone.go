package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

type milestoneRepository struct {
	schema string
}

func NewMilestoneRepository(schema string) MilestoneRepository {
	return &milestoneRepository{schema: schema}
}

const milestoneColumns = `id, project_id, name, description, due_date, order_index,
	       is_completed, completed_by, completed_at, created_at`

func (r *milestoneRepository) GetByID(ctx context.Context, q database.Querier, projectID, milestoneID int64) (*model.Milestone, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s.project_milestones
		WHERE id = $1 AND project_id = $2
	`, milestoneColumns, r.schema)

	var m model.Milestone
	err := q.GetContext(ctx, &m, query, milestoneID, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}
	return &m, nil
}

func (r *milestoneRepository) List(ctx context.Context, q database.Querier, projectID int64) ([]model.MilestoneDetail, error) {
	query := fmt.Sprintf(`
		SELECT pm.id, pm.project_id, pm.name, pm.description, pm.due_date, pm.order_index,
		       pm.is_completed, pm.completed_by, pm.completed_at, pm.created_at,
		       u.first_name AS completed_by_first_name,
		       u.last_name AS completed_by_last_name,
		       u.user_name AS completed_by_user_name
		FROM %[1]s.project_milestones pm
		LEFT JOIN %[1]s.users u ON pm.completed_by = u.id
		WHERE pm.project_id = $1
		ORDER BY pm.order_index ASC, pm.due_date ASC
	`, r.schema)

	var milestones []model.MilestoneDetail
	if err := q.SelectContext(ctx, &milestones, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	return milestones, nil
}

func (r *milestoneRepository) ListPlain(ctx context.Context, q database.Querier, projectID int64) ([]model.Milestone, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s.project_milestones
		WHERE project_id = $1
		ORDER BY order_index ASC, due_date ASC
	`, milestoneColumns, r.schema)

	var milestones []model.Milestone
	if err := q.SelectContext(ctx, &milestones, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	return milestones, nil
}

func (r *milestoneRepository) NextOrderIndex(ctx context.Context, q database.Querier, projectID int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(order_index), 0) + 1
		FROM %s.project_milestones
		WHERE project_id = $1
	`, r.schema)

	var next int
	if err := q.GetContext(ctx, &next, query, projectID); err != nil {
		return 0, fmt.Errorf("failed to get next order index: %w", err)
	}
	return next, nil
}

func (r *milestoneRepository) Insert(ctx context.Context, q database.Querier, projectID int64, name string, description *string, dueDate time.Time, orderIndex int) (*model.Milestone, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s.project_milestones (project_id, name, description, due_date, order_index)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, r.schema, milestoneColumns)

	var m model.Milestone
	err := q.GetContext(ctx, &m, query, projectID, name, description, dueDate, orderIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to insert milestone: %w", err)
	}
	return &m, nil
}

// Update writes only the patch's non-nil fields. Each field maps to a fixed
// column here; column names never come from the request payload.
func (r *milestoneRepository) Update(ctx context.Context, q database.Querier, projectID, milestoneID int64, patch model.MilestonePatch) (*model.Milestone, error) {
	var sets []string
	var args []interface{}
	param := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", param))
		args = append(args, strings.TrimSpace(*patch.Name))
		param++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", param))
		args = append(args, strings.TrimSpace(*patch.Description))
		param++
	}
	if patch.DueDate != nil {
		sets = append(sets, fmt.Sprintf("due_date = $%d", param))
		args = append(args, *patch.DueDate)
		param++
	}
	if patch.OrderIndex != nil {
		sets = append(sets, fmt.Sprintf("order_index = $%d", param))
		args = append(args, *patch.OrderIndex)
		param++
	}

	args = append(args, milestoneID, projectID)
	query := fmt.Sprintf(`
		UPDATE %s.project_milestones
		SET %s
		WHERE id = $%d AND project_id = $%d
		RETURNING %s
	`, r.schema, strings.Join(sets, ", "), param, param+1, milestoneColumns)

	var m model.Milestone
	err := q.GetContext(ctx, &m, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return &m, nil
}

func (r *milestoneRepository) Delete(ctx context.Context, q database.Querier, projectID, milestoneID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.project_milestones WHERE id = $1 AND project_id = $2`, r.schema)

	result, err := q.ExecContext(ctx, query, milestoneID, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to delete milestone: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *milestoneRepository) SetCompleted(ctx context.Context, q database.Querier, projectID, milestoneID, completedBy int64) (*model.Milestone, error) {
	query := fmt.Sprintf(`
		UPDATE %s.project_milestones
		SET is_completed = true,
		    completed_at = CURRENT_TIMESTAMP,
		    completed_by = $1
		WHERE id = $2 AND project_id = $3
		RETURNING %s
	`, r.schema, milestoneColumns)

	var m model.Milestone
	err := q.GetContext(ctx, &m, query, completedBy, milestoneID, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to complete milestone: %w", err)
	}
	return &m, nil
}

func (r *milestoneRepository) SetUncompleted(ctx context.Context, q database.Querier, projectID, milestoneID int64) (*model.Milestone, error) {
	query := fmt.Sprintf(`
		UPDATE %s.project_milestones
		SET is_completed = false,
		    completed_at = NULL,
		    completed_by = NULL
		WHERE id = $1 AND project_id = $2
		RETURNING %s
	`, r.schema, milestoneColumns)

	var m model.Milestone
	err := q.GetContext(ctx, &m, query, milestoneID, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to uncomplete milestone: %w", err)
	}
	return &m, nil
}

func (r *milestoneRepository) SetOrderIndex(ctx context.Context, q database.Querier, projectID, milestoneID int64, orderIndex int) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.project_milestones
		SET order_index = $1
		WHERE id = $2 AND project_id = $3
	`, r.schema)

	result, err := q.ExecContext(ctx, query, orderIndex, milestoneID, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to set order index: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *milestoneRepository) CountProgress(ctx context.Context, q database.Querier, projectID int64) (int, int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) AS total,
		       COUNT(CASE WHEN is_completed THEN 1 END) AS completed
		FROM %s.project_milestones
		WHERE project_id = $1
	`, r.schema)

	var counts struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	if err := q.GetContext(ctx, &counts, query, projectID); err != nil {
		return 0, 0, fmt.Errorf("failed to count milestone progress: %w", err)
	}
	return counts.Total, counts.Completed, nil
}
