package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamawesome_t4/internal/database"
	"teamawesome_t4/internal/model"
)

// userRepository implements UserRepository using sqlx. The schema prefix is
// injected at construction; nothing here reads ambient process state.
type userRepository struct {
	schema string
}

// NewUserRepository creates a new user repository bound to a table namespace.
func NewUserRepository(schema string) UserRepository {
	return &userRepository{schema: schema}
}

const userColumns = `id, user_name, first_name, last_name, email, password_hashed, bio,
	       profile_picture_url, profile_picture_key, is_profile_public, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, q database.Querier, u *model.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.users (user_name, first_name, last_name, email, password_hashed, is_profile_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, r.schema)

	row := q.QueryRowxContext(ctx, query,
		u.Username,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHashed,
		u.IsProfilePublic,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.users WHERE id = $1`, userColumns, r.schema)

	var u model.User
	err := q.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, q database.Querier, username string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s.users WHERE user_name = $1`, userColumns, r.schema)

	var u model.User
	err := q.GetContext(ctx, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, q database.Querier, username string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s.users WHERE user_name = $1)`, r.schema)

	var exists bool
	if err := q.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, q database.Querier, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s.users WHERE email = $1)`, r.schema)

	var exists bool
	if err := q.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, q database.Querier, id int64, req model.UpdateProfileRequest) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s.users
		SET first_name = COALESCE($1, first_name),
		    last_name = COALESCE($2, last_name),
		    bio = COALESCE($3, bio),
		    is_profile_public = COALESCE($4, is_profile_public),
		    updated_at = NOW()
		WHERE id = $5
		RETURNING %s
	`, r.schema, userColumns)

	var u model.User
	err := q.GetContext(ctx, &u, query, req.FirstName, req.LastName, req.Bio, req.IsProfilePublic, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UpdatePicture(ctx context.Context, q database.Querier, id int64, url, key *string) error {
	query := fmt.Sprintf(`
		UPDATE %s.users
		SET profile_picture_url = $1, profile_picture_key = $2, updated_at = NOW()
		WHERE id = $3
	`, r.schema)

	result, err := q.ExecContext(ctx, query, url, key, id)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Search(ctx context.Context, q database.Querier, query string, limit int) ([]model.UserSummary, error) {
	searchQuery := fmt.Sprintf(`
		SELECT id, user_name, first_name, last_name, profile_picture_url, is_profile_public
		FROM %s.users
		WHERE user_name ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1
		ORDER BY user_name ASC
		LIMIT $2
	`, r.schema)

	var users []model.UserSummary
	if err := q.SelectContext(ctx, &users, searchQuery, query+"%", limit); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
