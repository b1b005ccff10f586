package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

type projectRepository struct {
	schema string
}

func NewProjectRepository(schema string) ProjectRepository {
	return &projectRepository{schema: schema}
}

const swinburneProjectColumns = `id, base_project_id, unit_code, unit_name, semester,
	       academic_year, project_type, collaboration_status, progress_percentage, created_at`

// CreateSwinburne inserts the base project row and the academic variant row.
// Callers run it inside the same transaction as the leader bootstrap so a
// project never exists without at least one Active Leader.
func (r *projectRepository) CreateSwinburne(ctx context.Context, q database.Querier, ownerID int64, req model.CreateSwinburneProjectRequest) (*model.SwinburneProject, error) {
	baseQuery := fmt.Sprintf(`
		INSERT INTO %s.projects (title, description, owner_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`, r.schema)

	var baseProjectID int64
	if err := q.GetContext(ctx, &baseProjectID, baseQuery, req.Title, req.Description, ownerID); err != nil {
		return nil, fmt.Errorf("failed to insert base project: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.swinburne_projects
			(base_project_id, unit_code, unit_name, semester, academic_year, project_type, collaboration_status, progress_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW())
		RETURNING %s
	`, r.schema, swinburneProjectColumns)

	var p model.SwinburneProject
	err := q.GetContext(ctx, &p, query,
		baseProjectID,
		req.UnitCode,
		req.UnitName,
		req.Semester,
		req.AcademicYear,
		req.ProjectType,
		req.CollaborationStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert swinburne project: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) GetByID(ctx context.Context, q database.Querier, projectID int64) (*model.SwinburneProject, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.swinburne_projects WHERE id = $1`, swinburneProjectColumns, r.schema)

	var p model.SwinburneProject
	err := q.GetContext(ctx, &p, query, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) UpdateProgress(ctx context.Context, q database.Querier, projectID int64, percentage int) error {
	query := fmt.Sprintf(`
		UPDATE %s.swinburne_projects
		SET progress_percentage = $1
		WHERE id = $2
	`, r.schema)

	if _, err := q.ExecContext(ctx, query, percentage, projectID); err != nil {
		return fmt.Errorf("failed to update project progress: %w", err)
	}
	return nil
}

func (r *projectRepository) ListIDs(ctx context.Context, q database.Querier) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s.swinburne_projects`, r.schema)

	var ids []int64
	if err := q.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	return ids, nil
}
