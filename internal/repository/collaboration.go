package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

type collaboratorRepository struct {
	schema string
}

func NewCollaboratorRepository(schema string) CollaboratorRepository {
	return &collaboratorRepository{schema: schema}
}

const collaboratorColumns = `id, project_id, user_id, role, status, invited_by, joined_at`

func (r *collaboratorRepository) GetMembership(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s.project_collaborators
		WHERE project_id = $1 AND user_id = $2
	`, collaboratorColumns, r.schema)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, projectID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &c, nil
}

func (r *collaboratorRepository) GetActive(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s.project_collaborators
		WHERE project_id = $1 AND user_id = $2 AND status = $3
	`, collaboratorColumns, r.schema)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, projectID, userID, model.CollaboratorActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active membership: %w", err)
	}
	return &c, nil
}

// Invite keeps the (project, user) row unique: a brand-new invite inserts,
// an invite after earlier removal resets the Inactive row.
func (r *collaboratorRepository) Invite(ctx context.Context, q database.Querier, projectID, userID int64, role string, invitedBy int64) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s.project_collaborators (project_id, user_id, role, status, invited_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id, user_id)
		DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status, invited_by = EXCLUDED.invited_by
		RETURNING %s
	`, r.schema, collaboratorColumns)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, projectID, userID, role, model.CollaboratorInvited, invitedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to invite collaborator: %w", err)
	}
	return &c, nil
}

func (r *collaboratorRepository) InsertActive(ctx context.Context, q database.Querier, projectID, userID int64, role string) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s.project_collaborators (project_id, user_id, role, status, joined_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING %s
	`, r.schema, collaboratorColumns)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, projectID, userID, role, model.CollaboratorActive)
	if err != nil {
		return nil, fmt.Errorf("failed to insert active collaborator: %w", err)
	}
	return &c, nil
}

func (r *collaboratorRepository) UpdateRole(ctx context.Context, q database.Querier, projectID, userID int64, role string) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		UPDATE %s.project_collaborators
		SET role = $1
		WHERE project_id = $2 AND user_id = $3 AND status = $4
		RETURNING %s
	`, r.schema, collaboratorColumns)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, role, projectID, userID, model.CollaboratorActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCollaboratorNotFound
		}
		return nil, fmt.Errorf("failed to update collaborator role: %w", err)
	}
	return &c, nil
}

func (r *collaboratorRepository) Deactivate(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		UPDATE %s.project_collaborators
		SET status = $1
		WHERE project_id = $2 AND user_id = $3 AND status = $4
		RETURNING %s
	`, r.schema, collaboratorColumns)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, model.CollaboratorInactive, projectID, userID, model.CollaboratorActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCollaboratorNotFound
		}
		return nil, fmt.Errorf("failed to deactivate collaborator: %w", err)
	}
	return &c, nil
}

func (r *collaboratorRepository) AcceptInvite(ctx context.Context, q database.Querier, projectID, userID int64) (*model.Collaborator, error) {
	query := fmt.Sprintf(`
		UPDATE %s.project_collaborators
		SET status = $1, joined_at = CURRENT_TIMESTAMP
		WHERE project_id = $2 AND user_id = $3 AND status = $4
		RETURNING %s
	`, r.schema, collaboratorColumns)

	var c model.Collaborator
	err := q.GetContext(ctx, &c, query, model.CollaboratorActive, projectID, userID, model.CollaboratorInvited)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	return &c, nil
}

func (r *collaboratorRepository) DeleteInvite(ctx context.Context, q database.Querier, projectID, userID int64) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.project_collaborators
		WHERE project_id = $1 AND user_id = $2 AND status = $3
	`, r.schema)

	result, err := q.ExecContext(ctx, query, projectID, userID, model.CollaboratorInvited)
	if err != nil {
		return false, fmt.Errorf("failed to delete invitation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *collaboratorRepository) CountActiveLeaders(ctx context.Context, q database.Querier, projectID int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s.project_collaborators
		WHERE project_id = $1 AND role = $2 AND status = $3
	`, r.schema)

	var count int
	if err := q.GetContext(ctx, &count, query, projectID, model.RoleLeader, model.CollaboratorActive); err != nil {
		return 0, fmt.Errorf("failed to count active leaders: %w", err)
	}
	return count, nil
}

func (r *collaboratorRepository) IsActiveLeader(ctx context.Context, q database.Querier, projectID, userID int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM %s.project_collaborators
			WHERE project_id = $1 AND user_id = $2 AND role = $3 AND status = $4
		)
	`, r.schema)

	var isLeader bool
	if err := q.GetContext(ctx, &isLeader, query, projectID, userID, model.RoleLeader, model.CollaboratorActive); err != nil {
		return false, fmt.Errorf("failed to check leader status: %w", err)
	}
	return isLeader, nil
}

func (r *collaboratorRepository) ListActive(ctx context.Context, q database.Querier, projectID int64) ([]model.CollaboratorDetail, error) {
	query := fmt.Sprintf(`
		SELECT pc.id, pc.project_id, pc.user_id, pc.role, pc.status, pc.invited_by, pc.joined_at,
		       u.first_name, u.last_name, u.user_name, u.email, u.profile_picture_url
		FROM %[1]s.project_collaborators pc
		JOIN %[1]s.users u ON pc.user_id = u.id
		WHERE pc.project_id = $1 AND pc.status = $2
		ORDER BY
			CASE WHEN pc.role = $3 THEN 0 ELSE 1 END,
			pc.joined_at ASC
	`, r.schema)

	var collaborators []model.CollaboratorDetail
	if err := q.SelectContext(ctx, &collaborators, query, projectID, model.CollaboratorActive, model.RoleLeader); err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, nil
}

func (r *collaboratorRepository) ListInvitesForUser(ctx context.Context, q database.Querier, userID int64) ([]model.Invitation, error) {
	query := fmt.Sprintf(`
		SELECT pc.id, pc.project_id, pc.user_id, pc.role, pc.status, pc.invited_by, pc.joined_at,
		       sp.unit_code, sp.unit_name, sp.semester, sp.academic_year, sp.project_type,
		       p.title, p.description,
		       u.first_name AS inviter_first_name,
		       u.last_name AS inviter_last_name,
		       u.user_name AS inviter_user_name
		FROM %[1]s.project_collaborators pc
		JOIN %[1]s.swinburne_projects sp ON pc.project_id = sp.id
		JOIN %[1]s.projects p ON sp.base_project_id = p.id
		LEFT JOIN %[1]s.users u ON pc.invited_by = u.id
		WHERE pc.user_id = $1 AND pc.status = $2
		ORDER BY pc.joined_at DESC
	`, r.schema)

	var invitations []model.Invitation
	if err := q.SelectContext(ctx, &invitations, query, userID, model.CollaboratorInvited); err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}
