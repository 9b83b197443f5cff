package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrProfileRequired    = errors.New("student profile required")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("All fields are required")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrUserNotFound       = errors.New("No user with that username or email found")
	ErrDateOutOfRange     = errors.New("Date must be within logbook start and end date.")
	ErrEntryLimit         = errors.New("A logbook holds at most five entries.")
	ErrSummarizerDisabled = errors.New("week summarizer is not configured")
	ErrUnsupportedDiagram = errors.New("diagram must be a PNG, JPEG or PDF file")
)

// EntryExistsError reports a second entry for a date that already has one.
type EntryExistsError struct {
	EntryID int64
}

func (e *EntryExistsError) Error() string {
	return fmt.Sprintf("entry for this date already exists (id %d)", e.EntryID)
}

// owner resolves a caller's student profile and the logbooks it owns.
type owner struct {
	students port.StudentRepository
	logbooks port.LogbookRepository
}

func (o owner) student(ctx context.Context, user *entity.User) (*entity.Student, error) {
	student, err := o.students.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrProfileRequired
	}
	return student, nil
}

// logbook returns the logbook only when it belongs to user.
func (o owner) logbook(ctx context.Context, user *entity.User, id int64) (*entity.Student, *entity.Logbook, error) {
	student, err := o.student(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	lb, err := o.logbooks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if lb == nil || lb.StudentID != student.ID {
		return nil, nil, ErrNotFound
	}
	return student, lb, nil
}

func countUpdated(entries []*entity.Entry) int {
	n := 0
	for _, e := range entries {
		if e.IsUpdated {
			n++
		}
	}
	return n
}

func percentage(updated int) float64 {
	return float64(updated) / float64(entity.EntriesPerWeek) * 100
}

func dayName(date time.Time) string {
	return date.Weekday().String()
}

// IsClientError reports whether err is caused by the caller's input rather
// than a server failure.
func IsClientError(err error) bool {
	var exists *EntryExistsError
	switch {
	case errors.As(err, &exists):
		return true
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrDateOutOfRange),
		errors.Is(err, ErrEntryLimit),
		errors.Is(err, ErrUnsupportedDiagram):
		return true
	}
	return false
}
