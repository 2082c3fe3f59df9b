package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, role, totp_secret, totp_enabled, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user and returns it with generated fields filled in.
// A username or email collision surfaces as a DuplicateName error.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.Role,
	)
	result, err := scanUser(row)
	if c := violatedConstraint(err); c != "" {
		return nil, apperr.Wrap(apperr.DuplicateName, "username or email already taken", err)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return result, nil
}

// SetTOTPSecret stores a freshly generated TOTP secret for the user.
// The secret stays inactive until EnableTOTP is called after verification.
func (s *UserStore) SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks the user's 2FA enrollment as complete.
func (s *UserStore) EnableTOTP(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}
