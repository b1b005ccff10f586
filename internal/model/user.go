package model

import (
	"errors"
	"time"
)

// User represents a platform account.
type User struct {
	ID                int64     `db:"id" json:"id"`
	Username          string    `db:"user_name" json:"user_name"`
	FirstName         string    `db:"first_name" json:"first_name"`
	LastName          string    `db:"last_name" json:"last_name"`
	Email             string    `db:"email" json:"email"`
	PasswordHashed    string    `db:"password_hashed" json:"-"`
	Bio               *string   `db:"bio" json:"bio"`
	ProfilePictureURL *string   `db:"profile_picture_url" json:"profile_picture_url"`
	ProfilePictureKey *string   `db:"profile_picture_key" json:"-"`
	IsProfilePublic   bool      `db:"is_profile_public" json:"is_profile_public"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username  string `json:"user_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"user_name"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the mutable profile fields. Nil means leave
// the field unchanged.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Bio             *string `json:"bio"`
	IsProfilePublic *bool   `json:"is_profile_public"`
}

// UserSummary is the lightweight shape returned by search results.
type UserSummary struct {
	ID                int64   `db:"id" json:"id"`
	Username          string  `db:"user_name" json:"user_name"`
	FirstName         string  `db:"first_name" json:"first_name"`
	LastName          string  `db:"last_name" json:"last_name"`
	ProfilePictureURL *string `db:"profile_picture_url" json:"profile_picture_url"`
	IsProfilePublic   bool    `db:"is_profile_public" json:"is_profile_public"`
}

// Profile is a user as seen by a viewer: the account fields, the
// denormalized counters, and the viewer's relationship to the account.
type Profile struct {
	User            User    `json:"user"`
	FollowersCount  int     `json:"followers_count"`
	FollowingCount  int     `json:"following_count"`
	IsFollowing     bool    `json:"is_following"`
	FollowRequested *string `json:"follow_request_status"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
