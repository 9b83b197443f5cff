package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/pkg/utils"
)

// EntryRequest holds the fields of a daily entry
type EntryRequest struct {
	Date     time.Time `json:"date"`
	Activity string    `json:"activity"`
}

// EntryService manages the daily entries of a logbook
type EntryService interface {
	Create(ctx context.Context, user *entity.User, logbookID int64, req EntryRequest) (*entity.Entry, error)
	CreateBatch(ctx context.Context, user *entity.User, logbookID int64) ([]*entity.Entry, error)
	Update(ctx context.Context, user *entity.User, logbookID, entryID int64, req EntryRequest) (*entity.Entry, error)
}

type entryServiceImpl struct {
	owner
	entryRepo port.EntryRepository
	txManager port.TransactionManager
	logger    Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(
	studentRepo port.StudentRepository,
	logbookRepo port.LogbookRepository,
	entryRepo port.EntryRepository,
	txManager port.TransactionManager,
	logger Logger,
) EntryService {
	return &entryServiceImpl{
		owner:     owner{students: studentRepo, logbooks: logbookRepo},
		entryRepo: entryRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create records the activity of one day of the week
func (s *entryServiceImpl) Create(ctx context.Context, user *entity.User, logbookID int64, req EntryRequest) (*entity.Entry, error) {
	_, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !lb.Contains(req.Date) {
		return nil, ErrDateOutOfRange
	}

	existing, err := s.entryRepo.GetByDate(ctx, lb.ID, req.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &EntryExistsError{EntryID: existing.ID}
	}
	count, err := s.entryRepo.CountByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}
	if count >= entity.EntriesPerWeek {
		return nil, ErrEntryLimit
	}

	entry := &entity.Entry{
		LogbookID: lb.ID,
		Day:       dayName(req.Date),
		Date:      entity.TruncateDay(req.Date),
		Activity:  utils.SanitizeString(strings.TrimSpace(req.Activity)),
		IsUpdated: true,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create entry", "error", err, "logbook_id", lb.ID)
		return nil, err
	}

	s.logger.Info("Entry created", "id", entry.ID, "logbook_id", lb.ID, "day", entry.Day)
	return entry, nil
}

// CreateBatch adds a placeholder entry for every day of the week that has
// none yet
func (s *entryServiceImpl) CreateBatch(ctx context.Context, user *entity.User, logbookID int64) ([]*entity.Entry, error) {
	_, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}

	var created []*entity.Entry
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		from := entity.TruncateDay(lb.FromDate)
		to := entity.TruncateDay(lb.ToDate)
		for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
			existing, err := s.entryRepo.GetByDate(txCtx, lb.ID, date)
			if err != nil {
				return fmt.Errorf("get entry: %w", err)
			}
			if existing != nil {
				continue
			}
			entry := &entity.Entry{
				LogbookID: lb.ID,
				Day:       dayName(date),
				Date:      date,
				Activity:  entity.BatchEntryPlaceholder,
			}
			if err := s.entryRepo.Create(txCtx, entry); err != nil {
				return fmt.Errorf("create entry: %w", err)
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create batch entries", "error", err, "logbook_id", lb.ID)
		return nil, err
	}

	s.logger.Info("Batch entries created", "logbook_id", lb.ID, "count", len(created))
	return created, nil
}

// Update rewrites an entry's date and activity
func (s *entryServiceImpl) Update(ctx context.Context, user *entity.User, logbookID, entryID int64, req EntryRequest) (*entity.Entry, error) {
	_, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.LogbookID != lb.ID {
		return nil, ErrNotFound
	}

	date := req.Date
	if date.IsZero() {
		date = entry.Date
	}
	if !lb.Contains(date) {
		return nil, ErrDateOutOfRange
	}
	other, err := s.entryRepo.GetByDate(ctx, lb.ID, date)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != entry.ID {
		return nil, &EntryExistsError{EntryID: other.ID}
	}

	entry.Date = entity.TruncateDay(date)
	entry.Day = dayName(date)
	entry.Activity = utils.SanitizeString(strings.TrimSpace(req.Activity))
	entry.IsUpdated = true
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update entry", "error", err, "id", entry.ID)
		return nil, err
	}

	s.logger.Info("Entry updated", "id", entry.ID, "logbook_id", lb.ID)
	return entry, nil
}
