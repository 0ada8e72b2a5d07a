package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkravets/kiosk/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user record and assigns the generated ID.
// Username and email uniqueness is checked at the application level so the
// caller gets ErrDuplicate rather than a driver-specific constraint error.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	var taken bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	if err := r.db.QueryRowContext(ctx, checkQuery, user.Username, user.Email).Scan(&taken); err != nil {
		return fmt.Errorf("failed to check username availability: %w", err)
	}
	if taken {
		return fmt.Errorf("user %q: %w", user.Username, ErrDuplicate)
	}

	query := `
		INSERT INTO users (username, email, hashed_password, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.HashedPassword, user.IsAdmin).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT id, username, email, hashed_password, is_admin
		FROM users
		WHERE id = $1
	`
	var user models.User
	row := r.db.QueryRowContext(ctx, query, userID)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.IsAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their unique username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, hashed_password, is_admin
		FROM users
		WHERE username = $1
	`
	var user models.User
	row := r.db.QueryRowContext(ctx, query, username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.IsAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}
