package model

import (
	"errors"
	"time"
)

// Collaborator roles.
const (
	RoleLeader     = "Leader"
	RoleDeveloper  = "Developer"
	RoleDesigner   = "Designer"
	RoleResearcher = "Researcher"
	RoleWriter     = "Writer"
)

// Collaborator statuses. Removal sets Inactive instead of deleting the row
// so the membership history survives; a rejected invitation is deleted
// outright. The asymmetry comes from the original product behavior and is
// kept on purpose.
const (
	CollaboratorInvited  = "Invited"
	CollaboratorActive   = "Active"
	CollaboratorInactive = "Inactive"
)

// CollaborationOpen marks a project that any active collaborator may invite to.
const CollaborationOpen = "Open"

// ValidRole reports whether role is one of the fixed collaborator roles.
func ValidRole(role string) bool {
	switch role {
	case RoleLeader, RoleDeveloper, RoleDesigner, RoleResearcher, RoleWriter:
		return true
	}
	return false
}

// Collaborator is one user's membership on a project.
type Collaborator struct {
	ID        int64     `db:"id" json:"id"`
	ProjectID int64     `db:"project_id" json:"project_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	Status    string    `db:"status" json:"status"`
	InvitedBy *int64    `db:"invited_by" json:"invited_by"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

// CollaboratorDetail joins the membership row with the member's profile.
type CollaboratorDetail struct {
	Collaborator
	FirstName         string  `db:"first_name" json:"first_name"`
	LastName          string  `db:"last_name" json:"last_name"`
	Username          string  `db:"user_name" json:"user_name"`
	Email             string  `db:"email" json:"email"`
	ProfilePictureURL *string `db:"profile_picture_url" json:"profile_picture_url"`
}

// Invitation is a pending membership joined with project and inviter details.
type Invitation struct {
	Collaborator
	UnitCode         string  `db:"unit_code" json:"unit_code"`
	UnitName         string  `db:"unit_name" json:"unit_name"`
	Semester         string  `db:"semester" json:"semester"`
	AcademicYear     string  `db:"academic_year" json:"academic_year"`
	ProjectType      string  `db:"project_type" json:"project_type"`
	Title            string  `db:"title" json:"title"`
	Description      *string `db:"description" json:"description"`
	InviterFirstName *string `db:"inviter_first_name" json:"inviter_first_name"`
	InviterLastName  *string `db:"inviter_last_name" json:"inviter_last_name"`
	InviterUsername  *string `db:"inviter_user_name" json:"inviter_user_name"`
}

var (
	ErrInvalidRole          = errors.New("invalid role specified")
	ErrAccessDenied         = errors.New("access denied to this project")
	ErrNotSwinburneEmail    = errors.New("only Swinburne University users can be added to academic projects")
	ErrAlreadyCollaborator  = errors.New("user is already an active collaborator on this project")
	ErrAlreadyInvited       = errors.New("user already has a pending invitation for this project")
	ErrCollaboratorNotFound = errors.New("collaborator not found or not active")
	ErrLastLeader           = errors.New("cannot remove the last project leader")
	ErrInviteNotFound       = errors.New("no pending invitation found for this project")
)
