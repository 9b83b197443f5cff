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

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new generated document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert records the latest file generated for a logbook
func (r *DocumentRepository) Upsert(ctx context.Context, doc *entity.GeneratedDocument) error {
	now := nowUTC()
	_, err := r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO generated_documents (logbook_id, file_path, format, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(logbook_id) DO UPDATE SET
			file_path = excluded.file_path,
			format = excluded.format,
			created_at = excluded.created_at
	`, doc.LogbookID, doc.FilePath, doc.Format, now)
	if err != nil {
		r.logger.Error("Failed to record generated document",
			zap.Int64("logbook_id", doc.LogbookID), zap.Error(err))
		return fmt.Errorf("failed to record generated document: %w", err)
	}

	stored, err := r.GetByLogbookID(ctx, doc.LogbookID)
	if err != nil {
		return err
	}
	if stored != nil {
		doc.ID = stored.ID
	}
	doc.CreatedAt = now
	return nil
}

// GetByLogbookID retrieves the document generated for a logbook
func (r *DocumentRepository) GetByLogbookID(ctx context.Context, logbookID int64) (*entity.GeneratedDocument, error) {
	var d entity.GeneratedDocument
	err := r.getExecutor(ctx).QueryRowContext(ctx, `
		SELECT id, logbook_id, file_path, format, created_at
		FROM generated_documents WHERE logbook_id = ?
	`, logbookID).Scan(&d.ID, &d.LogbookID, &d.FilePath, &d.Format, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generated document: %w", err)
	}
	return &d, nil
}

// ListOlderThan returns documents generated before cutoff
func (r *DocumentRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*entity.GeneratedDocument, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, `
		SELECT id, logbook_id, file_path, format, created_at
		FROM generated_documents WHERE created_at < ? ORDER BY created_at
	`, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list generated documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.GeneratedDocument
	for rows.Next() {
		var d entity.GeneratedDocument
		if err := rows.Scan(&d.ID, &d.LogbookID, &d.FilePath, &d.Format, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generated document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// Delete removes a generated document record
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM generated_documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete generated document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.DocumentRepository = (*DocumentRepository)(nil)
