package service

import (
	"context"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
	"teamawesome_t4/internal/repository"
)

// ProjectService owns the small project surface the collaboration core
// needs: creation with the leader bootstrap, and reads.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	collabRepo  repository.CollaboratorRepository
	db          database.Querier
	tx          database.TxRunner
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	collabRepo repository.CollaboratorRepository,
	db database.Querier,
	tx database.TxRunner,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		collabRepo:  collabRepo,
		db:          db,
		tx:          tx,
	}
}

// Create inserts the project and bootstraps the creator as its first Active
// Leader in the same transaction, so the at-least-one-leader invariant holds
// from the project's first instant.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, req model.CreateSwinburneProjectRequest) (*model.SwinburneProject, error) {
	var project *model.SwinburneProject

	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		var err error
		project, err = s.projectRepo.CreateSwinburne(ctx, q, ownerID, req)
		if err != nil {
			return err
		}

		_, err = s.collabRepo.InsertActive(ctx, q, project.ID, ownerID, model.RoleLeader)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Get returns a Swinburne project by id.
func (s *ProjectService) Get(ctx context.Context, projectID int64) (*model.SwinburneProject, error) {
	return s.projectRepo.GetByID(ctx, s.db, projectID)
}

// ListProjectIDs returns every project id. Used by the reconciliation sweep.
func (s *ProjectService) ListProjectIDs(ctx context.Context) ([]int64, error) {
	return s.projectRepo.ListIDs(ctx, s.db)
}
