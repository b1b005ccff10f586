package model

import (
	"errors"
	"time"
)

// SwinburneProject is the academic project variant: a base project plus unit
// metadata, a collaboration policy, and the derived progress percentage.
type SwinburneProject struct {
	ID                  int64     `db:"id" json:"id"`
	BaseProjectID       int64     `db:"base_project_id" json:"base_project_id"`
	UnitCode            string    `db:"unit_code" json:"unit_code"`
	UnitName            string    `db:"unit_name" json:"unit_name"`
	Semester            string    `db:"semester" json:"semester"`
	AcademicYear        string    `db:"academic_year" json:"academic_year"`
	ProjectType         string    `db:"project_type" json:"project_type"`
	CollaborationStatus string    `db:"collaboration_status" json:"collaboration_status"`
	ProgressPercentage  int       `db:"progress_percentage" json:"progress_percentage"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// CreateSwinburneProjectRequest carries the fields for a new academic project.
type CreateSwinburneProjectRequest struct {
	Title               string  `json:"title"`
	Description         *string `json:"description"`
	UnitCode            string  `json:"unit_code"`
	UnitName            string  `json:"unit_name"`
	Semester            string  `json:"semester"`
	AcademicYear        string  `json:"academic_year"`
	ProjectType         string  `json:"project_type"`
	CollaborationStatus string  `json:"collaboration_status"`
}

var (
	ErrProjectNotFound = errors.New("project not found")
)
