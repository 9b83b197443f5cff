package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// SessionRepository implements port.SessionRepository
type SessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) port.SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a session
func (r *SessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = nowUTC()
	}
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, session.ExpiresAt.UTC(), session.CreatedAt.UTC())
	if err != nil {
		r.logger.Error("Failed to create session", zap.Int64("user_id", session.UserID), zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	var s entity.Session
	err := r.getExecutor(ctx).QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (r *SessionRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.SessionRepository = (*SessionRepository)(nil)
