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

// OperationRepository implements port.OperationRepository
type OperationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOperationRepository creates a new week operation repository
func NewOperationRepository(db *sql.DB, logger *zap.Logger) port.OperationRepository {
	return &OperationRepository{
		db:     db,
		logger: logger,
	}
}

const operationColumns = `id, logbook_id, operation, machinery, is_updated, created_at, updated_at`

// Create inserts a week operation
func (r *OperationRepository) Create(ctx context.Context, op *entity.Operation) error {
	now := nowUTC()
	result, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO week_operations (logbook_id, operation, machinery, is_updated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, op.LogbookID, op.Operation, op.Machinery, op.IsUpdated, now, now)
	if err != nil {
		r.logger.Error("Failed to create operation", zap.Int64("logbook_id", op.LogbookID), zap.Error(err))
		return fmt.Errorf("failed to create operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	op.ID = id
	op.CreatedAt = now
	op.UpdatedAt = now
	return nil
}

// GetByID retrieves an operation by ID
func (r *OperationRepository) GetByID(ctx context.Context, id int64) (*entity.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM week_operations WHERE id = ?`
	op, err := scanOperation(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return op, nil
}

// ListByLogbook returns the operations of a logbook in insertion order
func (r *OperationRepository) ListByLogbook(ctx context.Context, logbookID int64) ([]*entity.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM week_operations WHERE logbook_id = ? ORDER BY id`
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, logbookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []*entity.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Update saves an operation
func (r *OperationRepository) Update(ctx context.Context, op *entity.Operation) error {
	now := nowUTC()
	_, err := r.getExecutor(ctx).ExecContext(ctx, `
		UPDATE week_operations SET operation = ?, machinery = ?, is_updated = ?, updated_at = ?
		WHERE id = ?
	`, op.Operation, op.Machinery, op.IsUpdated, now, op.ID)
	if err != nil {
		r.logger.Error("Failed to update operation", zap.Int64("operation_id", op.ID), zap.Error(err))
		return fmt.Errorf("failed to update operation: %w", err)
	}
	op.UpdatedAt = now
	return nil
}

// Delete removes an operation
func (r *OperationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM week_operations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	return nil
}

func scanOperation(row rowScanner) (*entity.Operation, error) {
	var op entity.Operation
	err := row.Scan(
		&op.ID,
		&op.LogbookID,
		&op.Operation,
		&op.Machinery,
		&op.IsUpdated,
		&op.CreatedAt,
		&op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *OperationRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.OperationRepository = (*OperationRepository)(nil)
