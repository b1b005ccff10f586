package model

import (
	"errors"
	"time"
)

// MaxMilestoneNameLen caps milestone names.
const MaxMilestoneNameLen = 200

// Milestone belongs to exactly one Swinburne project.
type Milestone struct {
	ID          int64      `db:"id" json:"id"`
	ProjectID   int64      `db:"project_id" json:"project_id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	OrderIndex  int        `db:"order_index" json:"order_index"`
	IsCompleted bool       `db:"is_completed" json:"is_completed"`
	CompletedBy *int64     `db:"completed_by" json:"completed_by"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// MilestoneDetail joins a milestone with the completer's profile fields.
type MilestoneDetail struct {
	Milestone
	CompletedByFirstName *string `db:"completed_by_first_name" json:"completed_by_first_name"`
	CompletedByLastName  *string `db:"completed_by_last_name" json:"completed_by_last_name"`
	CompletedByUsername  *string `db:"completed_by_user_name" json:"completed_by_user_name"`
}

// CreateMilestoneRequest carries the fields for a new milestone. OrderIndex
// zero means "append after the current highest index".
type CreateMilestoneRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	OrderIndex  int        `json:"order_index"`
}

// MilestonePatch is the typed partial update for a milestone. Only non-nil
// fields are written; the repository maps each field to a fixed column, so
// no column name is ever derived from request payload keys.
type MilestonePatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	OrderIndex  *int       `json:"order_index"`
}

// IsEmpty reports whether the patch changes nothing.
func (p MilestonePatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DueDate == nil && p.OrderIndex == nil
}

// MilestoneOrder is one entry of a reorder batch. OrderIndex is a pointer so
// an entry that omits it is distinguishable from an explicit zero and can be
// rejected as malformed.
type MilestoneOrder struct {
	ID         int64 `json:"id"`
	OrderIndex *int  `json:"order_index"`
}

var (
	ErrMilestoneNotFound    = errors.New("milestone not found")
	ErrMilestoneNameMissing = errors.New("milestone name and due date are required")
	ErrMilestoneNameTooLong = errors.New("milestone name cannot exceed 200 characters")
	ErrDueDateInPast        = errors.New("due date cannot be in the past")
	ErrAlreadyCompleted     = errors.New("milestone is already completed")
	ErrNotCompleted         = errors.New("milestone is not completed")
	ErrInvalidReorder       = errors.New("each milestone must have id and order_index")
	ErrEmptyReorder         = errors.New("milestones array is required")
)
