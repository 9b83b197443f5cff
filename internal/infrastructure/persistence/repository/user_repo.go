package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// UserRepository implements port.UserRepository
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, email, first_name, last_name, password_hash, created_at, updated_at`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := nowUTC()
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByIdentifier retrieves a user by username or email, case-insensitively
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE username = ? COLLATE NOCASE OR email = ? COLLATE NOCASE
		ORDER BY id LIMIT 1`
	user, err := scanUser(r.getExecutor(ctx).QueryRowContext(ctx, query, identifier, identifier))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ExistsByUsername reports whether another user already has username
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE AND id != ?`, username, excludeID)
}

// ExistsByEmail reports whether another user already has email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE AND id != ?`, email, excludeID)
}

func (r *UserRepository) exists(ctx context.Context, query string, value string, excludeID int64) (bool, error) {
	var count int
	if err := r.getExecutor(ctx).QueryRowContext(ctx, query, value, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// Update saves profile fields of a user
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = ?, email = ?, first_name = ?, last_name = ?, updated_at = ?
		WHERE id = ?
	`
	now := nowUTC()
	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName, now, user.ID)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Int64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	user.UpdatedAt = now
	return nil
}

// UpdatePassword replaces the password hash of a user
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.UserRepository = (*UserRepository)(nil)
