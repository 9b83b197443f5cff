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

// EntryRepository implements port.EntryRepository
type EntryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *sql.DB, logger *zap.Logger) port.EntryRepository {
	return &EntryRepository{
		db:     db,
		logger: logger,
	}
}

const entryColumns = `id, logbook_id, day, date, activity, is_updated, created_at, updated_at`

// Create inserts a daily entry
func (r *EntryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	query := `
		INSERT INTO entries (logbook_id, day, date, activity, is_updated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := nowUTC()
	entry.Date = dateOnly(entry.Date)
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		entry.LogbookID, entry.Day, entry.Date, entry.Activity, entry.IsUpdated, now, now)
	if err != nil {
		r.logger.Error("Failed to create entry",
			zap.Int64("logbook_id", entry.LogbookID),
			zap.Time("date", entry.Date),
			zap.Error(err))
		return fmt.Errorf("failed to create entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

// GetByID retrieves an entry by ID
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*entity.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = ?`
	e, err := scanEntry(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

// GetByDate retrieves the entry of a logbook for a calendar day
func (r *EntryRepository) GetByDate(ctx context.Context, logbookID int64, date time.Time) (*entity.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE logbook_id = ? AND date = ?`
	e, err := scanEntry(r.getExecutor(ctx).QueryRowContext(ctx, query, logbookID, dateOnly(date)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry by date: %w", err)
	}
	return e, nil
}

// ListByLogbook returns the entries of a logbook in date order
func (r *EntryRepository) ListByLogbook(ctx context.Context, logbookID int64) ([]*entity.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE logbook_id = ? ORDER BY date, id`
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, logbookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByLogbook returns the number of entries in a logbook
func (r *EntryRepository) CountByLogbook(ctx context.Context, logbookID int64) (int, error) {
	var count int
	err := r.getExecutor(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE logbook_id = ?`, logbookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// Update saves the day, date and activity of an entry
func (r *EntryRepository) Update(ctx context.Context, entry *entity.Entry) error {
	query := `
		UPDATE entries
		SET day = ?, date = ?, activity = ?, is_updated = ?, updated_at = ?
		WHERE id = ?
	`
	now := nowUTC()
	entry.Date = dateOnly(entry.Date)
	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		entry.Day, entry.Date, entry.Activity, entry.IsUpdated, now, entry.ID)
	if err != nil {
		r.logger.Error("Failed to update entry", zap.Int64("entry_id", entry.ID), zap.Error(err))
		return fmt.Errorf("failed to update entry: %w", err)
	}
	entry.UpdatedAt = now
	return nil
}

func scanEntry(row rowScanner) (*entity.Entry, error) {
	var e entity.Entry
	err := row.Scan(
		&e.ID,
		&e.LogbookID,
		&e.Day,
		&e.Date,
		&e.Activity,
		&e.IsUpdated,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EntryRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.EntryRepository = (*EntryRepository)(nil)
