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

// LogbookRepository implements port.LogbookRepository
type LogbookRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLogbookRepository creates a new logbook repository
func NewLogbookRepository(db *sql.DB, logger *zap.Logger) port.LogbookRepository {
	return &LogbookRepository{
		db:     db,
		logger: logger,
	}
}

const logbookColumns = `id, student_id, week_number, from_date, to_date, is_submitted,
	week_activity, activity_diagram, created_at, updated_at`

// Create inserts a logbook
func (r *LogbookRepository) Create(ctx context.Context, logbook *entity.Logbook) error {
	query := `
		INSERT INTO logbooks (
			student_id, week_number, from_date, to_date, is_submitted,
			week_activity, activity_diagram, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := nowUTC()
	logbook.FromDate = dateOnly(logbook.FromDate)
	logbook.ToDate = dateOnly(logbook.ToDate)
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		logbook.StudentID,
		logbook.WeekNumber,
		logbook.FromDate,
		logbook.ToDate,
		logbook.IsSubmitted,
		logbook.WeekActivity,
		logbook.ActivityDiagram,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create logbook",
			zap.Int64("student_id", logbook.StudentID),
			zap.Int("week", logbook.WeekNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create logbook: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	logbook.ID = id
	logbook.CreatedAt = now
	logbook.UpdatedAt = now
	return nil
}

// GetByID retrieves a logbook by ID
func (r *LogbookRepository) GetByID(ctx context.Context, id int64) (*entity.Logbook, error) {
	query := `SELECT ` + logbookColumns + ` FROM logbooks WHERE id = ?`
	lb, err := scanLogbook(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get logbook: %w", err)
	}
	return lb, nil
}

// GetByWeek retrieves the first logbook of a student for a week number
func (r *LogbookRepository) GetByWeek(ctx context.Context, studentID int64, week int) (*entity.Logbook, error) {
	query := `SELECT ` + logbookColumns + ` FROM logbooks
		WHERE student_id = ? AND week_number = ? ORDER BY id LIMIT 1`
	lb, err := scanLogbook(r.getExecutor(ctx).QueryRowContext(ctx, query, studentID, week))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get logbook by week: %w", err)
	}
	return lb, nil
}

// ListByStudent returns a student's logbooks by week number
func (r *LogbookRepository) ListByStudent(ctx context.Context, studentID int64) ([]*entity.Logbook, error) {
	query := `SELECT ` + logbookColumns + ` FROM logbooks
		WHERE student_id = ? ORDER BY week_number, id`
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list logbooks: %w", err)
	}
	defer rows.Close()

	var logbooks []*entity.Logbook
	for rows.Next() {
		lb, err := scanLogbook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan logbook: %w", err)
		}
		logbooks = append(logbooks, lb)
	}
	return logbooks, rows.Err()
}

// Update saves the editable fields of a logbook
func (r *LogbookRepository) Update(ctx context.Context, logbook *entity.Logbook) error {
	query := `
		UPDATE logbooks
		SET week_number = ?, from_date = ?, to_date = ?, week_activity = ?, updated_at = ?
		WHERE id = ?
	`
	now := nowUTC()
	logbook.FromDate = dateOnly(logbook.FromDate)
	logbook.ToDate = dateOnly(logbook.ToDate)
	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		logbook.WeekNumber, logbook.FromDate, logbook.ToDate, logbook.WeekActivity, now, logbook.ID)
	if err != nil {
		r.logger.Error("Failed to update logbook", zap.Int64("logbook_id", logbook.ID), zap.Error(err))
		return fmt.Errorf("failed to update logbook: %w", err)
	}
	logbook.UpdatedAt = now
	return nil
}

// MarkSubmitted flags a logbook as printed
func (r *LogbookRepository) MarkSubmitted(ctx context.Context, id int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE logbooks SET is_submitted = 1, updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark logbook submitted: %w", err)
	}
	return nil
}

// SetDiagram stores the media-relative path of the activity diagram
func (r *LogbookRepository) SetDiagram(ctx context.Context, id int64, path string) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE logbooks SET activity_diagram = ?, updated_at = ? WHERE id = ?`, path, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set diagram: %w", err)
	}
	return nil
}

// Delete removes a logbook with its entries and operations
func (r *LogbookRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM logbooks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete logbook: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLogbook(row rowScanner) (*entity.Logbook, error) {
	var lb entity.Logbook
	err := row.Scan(
		&lb.ID,
		&lb.StudentID,
		&lb.WeekNumber,
		&lb.FromDate,
		&lb.ToDate,
		&lb.IsSubmitted,
		&lb.WeekActivity,
		&lb.ActivityDiagram,
		&lb.CreatedAt,
		&lb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lb, nil
}

func (r *LogbookRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.LogbookRepository = (*LogbookRepository)(nil)
