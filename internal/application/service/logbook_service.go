package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/internal/logbook"
	"github.com/google/uuid"
)

// DiagramDir is the media sub-directory holding uploaded activity diagrams.
const DiagramDir = "activity_diagrams"

const (
	previewOperations = 2
	previewThreshold  = 30
	previewLength     = 50
)

// CreateLogbookRequest holds the fields of a new training week
type CreateLogbookRequest struct {
	WeekNumber   int       `json:"week_number"`
	FromDate     time.Time `json:"from_date"`
	WeekActivity string    `json:"week_activity"`
}

// OperationPreview is a shortened operation shown in the catalog
type OperationPreview struct {
	Operation string `json:"operation"`
	Machinery string `json:"machinery"`
}

// LogbookSummary is one catalog row
type LogbookSummary struct {
	ID             int64              `json:"id"`
	WeekNumber     int                `json:"week_number"`
	FromDate       time.Time          `json:"from_date"`
	WeekActivity   string             `json:"week_activity"`
	Entries        []*entity.Entry    `json:"entries"`
	UpdatedEntries int                `json:"updated_entries"`
	Percentage     float64            `json:"percentage"`
	OperationCount int                `json:"operation_count"`
	Operations     []OperationPreview `json:"operations"`
}

// LogbookDetail is a logbook with its entries and operations
type LogbookDetail struct {
	Logbook        *entity.Logbook     `json:"logbook"`
	Entries        []*entity.Entry     `json:"entries"`
	Operations     []*entity.Operation `json:"operations"`
	EntryCount     int                 `json:"entry_count"`
	UpdatedEntries int                 `json:"updated_entries"`
	Percentage     float64             `json:"percentage"`
	PrintReady     bool                `json:"print_ready"`
}

// LogbookService manages training weeks
type LogbookService interface {
	Catalog(ctx context.Context, user *entity.User) ([]*LogbookSummary, error)
	Create(ctx context.Context, user *entity.User, req CreateLogbookRequest) (*entity.Logbook, error)
	Detail(ctx context.Context, user *entity.User, id int64) (*LogbookDetail, error)
	Delete(ctx context.Context, user *entity.User, id int64) error
	WeekEntries(ctx context.Context, user *entity.User, week int) ([]port.DayActivity, error)
	UpdateDiagram(ctx context.Context, user *entity.User, id int64, content []byte) (*entity.Logbook, error)
	Summarize(ctx context.Context, user *entity.User, id int64) (*entity.Logbook, error)
}

type logbookServiceImpl struct {
	owner
	entryRepo     port.EntryRepository
	operationRepo port.OperationRepository
	storage       port.FileStorage
	rasterizer    port.DiagramRasterizer
	summarizer    port.ActivitySummarizer
	metrics       port.MetricsRecorder
	logger        Logger
}

// NewLogbookService creates a new LogbookService. summarizer may be nil, in
// which case Summarize returns ErrSummarizerDisabled.
func NewLogbookService(
	studentRepo port.StudentRepository,
	logbookRepo port.LogbookRepository,
	entryRepo port.EntryRepository,
	operationRepo port.OperationRepository,
	storage port.FileStorage,
	rasterizer port.DiagramRasterizer,
	summarizer port.ActivitySummarizer,
	metrics port.MetricsRecorder,
	logger Logger,
) LogbookService {
	if metrics == nil {
		metrics = port.NoopMetrics{}
	}
	return &logbookServiceImpl{
		owner:         owner{students: studentRepo, logbooks: logbookRepo},
		entryRepo:     entryRepo,
		operationRepo: operationRepo,
		storage:       storage,
		rasterizer:    rasterizer,
		summarizer:    summarizer,
		metrics:       metrics,
		logger:        logger,
	}
}

// Catalog lists the caller's logbooks with their progress
func (s *logbookServiceImpl) Catalog(ctx context.Context, user *entity.User) ([]*LogbookSummary, error) {
	student, err := s.student(ctx, user)
	if err != nil {
		return nil, err
	}
	logbooks, err := s.logbooks.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("Failed to list logbooks", "error", err, "student_id", student.ID)
		return nil, err
	}

	summaries := make([]*LogbookSummary, 0, len(logbooks))
	for _, lb := range logbooks {
		entries, err := s.entryRepo.ListByLogbook(ctx, lb.ID)
		if err != nil {
			return nil, err
		}
		ops, err := s.operationRepo.ListByLogbook(ctx, lb.ID)
		if err != nil {
			return nil, err
		}

		updated := countUpdated(entries)
		summary := &LogbookSummary{
			ID:             lb.ID,
			WeekNumber:     lb.WeekNumber,
			FromDate:       lb.FromDate,
			WeekActivity:   lb.WeekActivity,
			Entries:        entries,
			UpdatedEntries: updated,
			Percentage:     percentage(updated),
			OperationCount: len(ops),
			Operations:     make([]OperationPreview, 0, previewOperations),
		}
		for i, op := range ops {
			if i == previewOperations {
				break
			}
			summary.Operations = append(summary.Operations, OperationPreview{
				Operation: preview(op.Operation),
				Machinery: preview(op.Machinery),
			})
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// preview shortens long operation text for the catalog
func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewThreshold {
		return text
	}
	if len(r) > previewLength {
		r = r[:previewLength]
	}
	return string(r) + "..."
}

// Create opens a new training week spanning Monday to Friday
func (s *logbookServiceImpl) Create(ctx context.Context, user *entity.User, req CreateLogbookRequest) (*entity.Logbook, error) {
	student, err := s.student(ctx, user)
	if err != nil {
		return nil, err
	}
	if req.WeekNumber <= 0 {
		return nil, fmt.Errorf("%w: week number must be positive", ErrInvalidInput)
	}
	if req.FromDate.IsZero() {
		return nil, fmt.Errorf("%w: from date is required", ErrInvalidInput)
	}

	activity := strings.TrimSpace(req.WeekActivity)
	if activity == "" {
		activity = entity.DefaultWeekActivity
	}
	from := entity.TruncateDay(req.FromDate)
	lb := &entity.Logbook{
		StudentID:    student.ID,
		WeekNumber:   req.WeekNumber,
		FromDate:     from,
		ToDate:       from.AddDate(0, 0, entity.WeekSpanDays),
		WeekActivity: activity,
	}
	if err := s.logbooks.Create(ctx, lb); err != nil {
		s.logger.Error("Failed to create logbook", "error", err, "student_id", student.ID, "week", req.WeekNumber)
		return nil, err
	}

	s.logger.Info("Logbook created", "id", lb.ID, "student_id", student.ID, "week", lb.WeekNumber)
	return lb, nil
}

// Detail returns a logbook with its entries and operations
func (s *logbookServiceImpl) Detail(ctx context.Context, user *entity.User, id int64) (*LogbookDetail, error) {
	_, lb, err := s.logbook(ctx, user, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}
	ops, err := s.operationRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}

	updated := countUpdated(entries)
	return &LogbookDetail{
		Logbook:        lb,
		Entries:        entries,
		Operations:     ops,
		EntryCount:     len(entries),
		UpdatedEntries: updated,
		Percentage:     percentage(updated),
		PrintReady:     updated == entity.EntriesPerWeek,
	}, nil
}

// Delete removes a logbook with its entries and operations
func (s *logbookServiceImpl) Delete(ctx context.Context, user *entity.User, id int64) error {
	_, lb, err := s.logbook(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.logbooks.Delete(ctx, lb.ID); err != nil {
		s.logger.Error("Failed to delete logbook", "error", err, "id", lb.ID)
		return err
	}
	s.logger.Info("Logbook deleted", "id", lb.ID)
	return nil
}

// WeekEntries returns the recorded weekdays of the caller's given week
func (s *logbookServiceImpl) WeekEntries(ctx context.Context, user *entity.User, week int) ([]port.DayActivity, error) {
	student, err := s.student(ctx, user)
	if errors.Is(err, ErrProfileRequired) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lb, err := s.logbooks.GetByWeek(ctx, student.ID, week)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return nil, ErrNotFound
	}

	entries, err := s.entryRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]*entity.Entry, len(entries))
	for _, e := range entries {
		byDay[e.Day] = e
	}

	days := make([]port.DayActivity, 0, entity.EntriesPerWeek)
	for _, day := range logbook.Weekdays {
		if e, ok := byDay[day]; ok {
			days = append(days, port.DayActivity{Day: day, Activity: strings.TrimSpace(e.Activity)})
		}
	}
	return days, nil
}

// UpdateDiagram stores an uploaded activity diagram. PDF uploads are
// rasterized to PNG from their first page.
func (s *logbookServiceImpl) UpdateDiagram(ctx context.Context, user *entity.User, id int64, content []byte) (*entity.Logbook, error) {
	_, lb, err := s.logbook(ctx, user, id)
	if err != nil {
		return nil, err
	}

	var kind, ext string
	switch http.DetectContentType(content) {
	case "image/png":
		kind, ext = "png", ".png"
	case "image/jpeg":
		kind, ext = "jpeg", ".jpg"
	case "application/pdf":
		if s.rasterizer == nil {
			return nil, ErrUnsupportedDiagram
		}
		png, err := s.rasterizer.ToPNG(content)
		if err != nil {
			s.logger.Error("Failed to rasterize diagram", "error", err, "logbook_id", lb.ID)
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedDiagram, err)
		}
		content = png
		kind, ext = "pdf", ".png"
	default:
		return nil, ErrUnsupportedDiagram
	}

	rel := path.Join(DiagramDir, uuid.NewString()+ext)
	if err := s.storage.Save(ctx, rel, content); err != nil {
		s.logger.Error("Failed to save diagram", "error", err, "logbook_id", lb.ID)
		return nil, err
	}
	if err := s.logbooks.SetDiagram(ctx, lb.ID, rel); err != nil {
		_ = s.storage.Delete(ctx, rel)
		return nil, err
	}
	if lb.ActivityDiagram != "" {
		if err := s.storage.Delete(ctx, lb.ActivityDiagram); err != nil {
			s.logger.Error("Failed to remove previous diagram", "error", err, "path", lb.ActivityDiagram)
		}
	}

	s.metrics.RecordDiagramUpload(kind)
	s.logger.Info("Diagram updated", "logbook_id", lb.ID, "kind", kind, "path", rel)
	lb.ActivityDiagram = rel
	return lb, nil
}

// Summarize drafts the week activity from the logbook's entries
func (s *logbookServiceImpl) Summarize(ctx context.Context, user *entity.User, id int64) (*entity.Logbook, error) {
	if s.summarizer == nil {
		return nil, ErrSummarizerDisabled
	}
	_, lb, err := s.logbook(ctx, user, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}
	ops, err := s.operationRepo.ListByLogbook(ctx, lb.ID)
	if err != nil {
		return nil, err
	}

	days := make([]port.DayActivity, 0, len(entries))
	for _, e := range entries {
		days = append(days, port.DayActivity{Day: e.Day, Activity: strings.TrimSpace(e.Activity)})
	}
	jobs := make([]string, 0, len(ops))
	for _, op := range ops {
		jobs = append(jobs, op.Operation)
	}

	summary, err := s.summarizer.SummarizeWeek(ctx, lb.WeekNumber, days, jobs)
	if err != nil {
		s.logger.Error("Failed to summarize week", "error", err, "logbook_id", lb.ID)
		return nil, err
	}
	lb.WeekActivity = summary
	if err := s.logbooks.Update(ctx, lb); err != nil {
		return nil, err
	}

	s.logger.Info("Week summarized", "logbook_id", lb.ID)
	return lb, nil
}
