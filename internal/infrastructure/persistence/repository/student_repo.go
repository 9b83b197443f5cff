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

// StudentRepository implements port.StudentRepository
type StudentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *sql.DB, logger *zap.Logger) port.StudentRepository {
	return &StudentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a student profile
func (r *StudentRepository) Create(ctx context.Context, student *entity.Student) error {
	query := `
		INSERT INTO students (
			user_id, university, department_name, registration_number,
			year_of_study, pt_location, pt_start_date, logbook_print_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := nowUTC()
	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		student.UserID,
		student.University,
		student.DepartmentName,
		student.RegistrationNumber,
		student.YearOfStudy,
		student.PTLocation,
		nullDate(student),
		student.LogbookPrintCount,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create student", zap.Int64("user_id", student.UserID), zap.Error(err))
		return fmt.Errorf("failed to create student: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	student.ID = id
	student.CreatedAt = now
	student.UpdatedAt = now
	return nil
}

// GetByUserID retrieves the student profile of a user
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*entity.Student, error) {
	query := `
		SELECT id, user_id, university, department_name, registration_number,
			year_of_study, pt_location, pt_start_date, logbook_print_count,
			created_at, updated_at
		FROM students WHERE user_id = ?
	`
	var (
		s     entity.Student
		start sql.NullTime
	)
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.University,
		&s.DepartmentName,
		&s.RegistrationNumber,
		&s.YearOfStudy,
		&s.PTLocation,
		&start,
		&s.LogbookPrintCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if start.Valid {
		s.PTStartDate = &start.Time
	}
	return &s, nil
}

// Update saves profile fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *entity.Student) error {
	query := `
		UPDATE students
		SET university = ?, department_name = ?, registration_number = ?,
			year_of_study = ?, pt_location = ?, pt_start_date = ?, updated_at = ?
		WHERE id = ?
	`
	now := nowUTC()
	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		student.University,
		student.DepartmentName,
		student.RegistrationNumber,
		student.YearOfStudy,
		student.PTLocation,
		nullDate(student),
		now,
		student.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update student", zap.Int64("student_id", student.ID), zap.Error(err))
		return fmt.Errorf("failed to update student: %w", err)
	}
	student.UpdatedAt = now
	return nil
}

// IncrementPrintCount bumps the number of logbooks a student has printed
func (r *StudentRepository) IncrementPrintCount(ctx context.Context, id int64) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE students SET logbook_print_count = logbook_print_count + 1, updated_at = ? WHERE id = ?`,
		nowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to increment print count: %w", err)
	}
	return nil
}

func nullDate(s *entity.Student) sql.NullTime {
	if s.PTStartDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dateOnly(*s.PTStartDate), Valid: true}
}

func (r *StudentRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFor(ctx, r.db)
}

var _ port.StudentRepository = (*StudentRepository)(nil)
