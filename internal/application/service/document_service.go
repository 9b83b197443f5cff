package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/internal/logbook"
)

// PrintDateLayout is the date format printed on logbooks
const PrintDateLayout = entity.DateLayout

// GeneratedFile describes a saved logbook ready for download
type GeneratedFile struct {
	Path        string `json:"path"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// DocumentService produces printable logbooks
type DocumentService interface {
	Generate(ctx context.Context, user *entity.User, logbookID int64) (*GeneratedFile, error)
}

type documentServiceImpl struct {
	owner
	entryRepo      port.EntryRepository
	operationRepo  port.OperationRepository
	documentRepo   port.DocumentRepository
	txManager      port.TransactionManager
	storage        port.FileStorage
	builder        port.LogbookBuilder
	defaultDiagram string
	metrics        port.MetricsRecorder
	logger         Logger
}

// NewDocumentService creates a new DocumentService. defaultDiagram is used
// for logbooks without an uploaded diagram and may be empty.
func NewDocumentService(
	studentRepo port.StudentRepository,
	logbookRepo port.LogbookRepository,
	entryRepo port.EntryRepository,
	operationRepo port.OperationRepository,
	documentRepo port.DocumentRepository,
	txManager port.TransactionManager,
	storage port.FileStorage,
	builder port.LogbookBuilder,
	defaultDiagram string,
	metrics port.MetricsRecorder,
	logger Logger,
) DocumentService {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &documentServiceImpl{
		owner:          owner{students: studentRepo, logbooks: logbookRepo},
		entryRepo:      entryRepo,
		operationRepo:  operationRepo,
		documentRepo:   documentRepo,
		txManager:      txManager,
		storage:        storage,
		builder:        builder,
		defaultDiagram: defaultDiagram,
		metrics:        metrics,
		logger:         logger,
	}
}

// Generate saves the logbook's printable file, then marks it submitted and
// counts the print
func (s *documentServiceImpl) Generate(ctx context.Context, user *entity.User, logbookID int64) (*GeneratedFile, error) {
	student, lb, err := s.logbook(ctx, user, logbookID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Generating logbook document", "logbook_id", lb.ID, "student_id", student.ID)

	entries, err := s.entryRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}
	ops, err := s.operationRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}

	header := logbook.HeaderInfo{
		Department:  student.DepartmentName,
		StudentName: user.DisplayName(),
		RegNo:       student.RegistrationNumber,
		Company:     student.PTLocation,
		WeekNo:      lb.WeekNumber,
		FromDate:    lb.FromDate.Format(PrintDateLayout),
		ToDate:      lb.ToDate.Format(PrintDateLayout),
	}
	operations := make([]logbook.Operation, 0, len(ops))
	for _, op := range ops {
		operations = append(operations, logbook.Operation{Operation: op.Operation, Machinery: op.Machinery})
	}

	format := s.builder.Renderer().Extension()
	start := time.Now()
	path, err := s.builder.Build(header, dayEntries(entries), operations, s.diagramPath(lb))
	s.metrics.RecordGeneration(format, time.Since(start), err)
	if err != nil {
		s.logger.Error("Failed to build logbook", "error", err, "logbook_id", lb.ID)
		return nil, err
	}

	// only a saved file counts as a print
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.logbooks.MarkSubmitted(txCtx, lb.ID); err != nil {
			return fmt.Errorf("mark submitted: %w", err)
		}
		if err := s.students.IncrementPrintCount(txCtx, student.ID); err != nil {
			return fmt.Errorf("increment print count: %w", err)
		}
		if err := s.documentRepo.Upsert(txCtx, &entity.GeneratedDocument{
			LogbookID: lb.ID,
			FilePath:  path,
			Format:    format,
		}); err != nil {
			return fmt.Errorf("record generated document: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to record submission", "error", err, "logbook_id", lb.ID)
		return nil, err
	}

	s.logger.Info("Logbook document generated", "logbook_id", lb.ID, "path", path)
	return &GeneratedFile{
		Path:        path,
		FileName:    filepath.Base(path),
		ContentType: s.builder.Renderer().ContentType(),
	}, nil
}

func (s *documentServiceImpl) diagramPath(lb *entity.Logbook) string {
	if lb.ActivityDiagram != "" {
		return s.storage.GetFullPath(lb.ActivityDiagram)
	}
	return s.defaultDiagram
}

// dayEntries fills every weekday, using a blank placeholder for days without
// an entry
func dayEntries(entries []*entity.Entry) map[string]logbook.DayEntry {
	days := make(map[string]logbook.DayEntry, len(logbook.Weekdays))
	for _, day := range logbook.Weekdays {
		days[day] = logbook.DayEntry{Date: entity.MissingDatePlaceholder}
	}
	for _, e := range entries {
		if !logbook.IsWeekday(e.Day) {
			continue
		}
		days[e.Day] = logbook.DayEntry{
			Date:     e.Date.Format(PrintDateLayout),
			Activity: e.Activity,
		}
	}
	return days
}
