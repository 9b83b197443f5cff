package port

import (
	"context"
	"time"

	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetByIdentifier looks a user up by username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// SessionRepository defines persistence operations for Session
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// StudentRepository defines persistence operations for Student
type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	GetByUserID(ctx context.Context, userID int64) (*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	IncrementPrintCount(ctx context.Context, id int64) error
}

// LogbookRepository defines persistence operations for Logbook
type LogbookRepository interface {
	Create(ctx context.Context, logbook *entity.Logbook) error
	GetByID(ctx context.Context, id int64) (*entity.Logbook, error)
	GetByWeek(ctx context.Context, studentID int64, week int) (*entity.Logbook, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*entity.Logbook, error)
	Update(ctx context.Context, logbook *entity.Logbook) error
	MarkSubmitted(ctx context.Context, id int64) error
	SetDiagram(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
}

// EntryRepository defines persistence operations for Entry
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id int64) (*entity.Entry, error)
	GetByDate(ctx context.Context, logbookID int64, date time.Time) (*entity.Entry, error)
	ListByLogbook(ctx context.Context, logbookID int64) ([]*entity.Entry, error)
	CountByLogbook(ctx context.Context, logbookID int64) (int, error)
	Update(ctx context.Context, entry *entity.Entry) error
}

// OperationRepository defines persistence operations for Operation
type OperationRepository interface {
	Create(ctx context.Context, op *entity.Operation) error
	GetByID(ctx context.Context, id int64) (*entity.Operation, error)
	ListByLogbook(ctx context.Context, logbookID int64) ([]*entity.Operation, error)
	Update(ctx context.Context, op *entity.Operation) error
	Delete(ctx context.Context, id int64) error
}

// DocumentRepository defines persistence operations for GeneratedDocument
type DocumentRepository interface {
	// Upsert keeps a single record per logbook.
	Upsert(ctx context.Context, doc *entity.GeneratedDocument) error
	GetByLogbookID(ctx context.Context, logbookID int64) (*entity.GeneratedDocument, error)
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*entity.GeneratedDocument, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
