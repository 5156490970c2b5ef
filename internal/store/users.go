package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/binventory/internal/db"
	"github.com/erazemk/binventory/internal/model"
)

const userColumns = `id, username, password_hash, created_at`

// CreateUser creates a new user.
func CreateUser(ctx context.Context, d *db.DB, username, passwordHash string) (*model.User, error) {
	result, err := d.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, d, id)
}

// GetUser returns a user by ID, or nil if there is none.
func GetUser(ctx context.Context, d *db.DB, id int64) (*model.User, error) {
	u := &model.User{}
	err := d.GetContext(ctx, u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username, or nil if there is none.
func GetUserByUsername(ctx context.Context, d *db.DB, username string) (*model.User, error) {
	u := &model.User{}
	err := d.GetContext(ctx, u, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all users.
func ListUsers(ctx context.Context, d *db.DB) ([]model.User, error) {
	users := []model.User{}
	if err := d.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, d *db.DB, username, passwordHash string) error {
	result, err := d.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE username = ?`,
		passwordHash, username,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("user", username)
	}
	return nil
}

// DeleteUser removes a user.
func DeleteUser(ctx context.Context, d *db.DB, username string) error {
	result, err := d.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("user", username)
	}
	return nil
}
