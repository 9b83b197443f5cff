package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// RetentionConfig controls the cleanup schedule
type RetentionConfig struct {
	Interval       time.Duration
	DocumentMaxAge time.Duration
}

// RetentionWorker periodically removes expired sessions and, when a max age
// is set, generated logbook files older than it.
type RetentionWorker struct {
	cfg       RetentionConfig
	sessions  port.SessionRepository
	documents port.DocumentRepository
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	scheduler gocron.Scheduler
}

// NewRetentionWorker creates a new retention worker
func NewRetentionWorker(cfg RetentionConfig, sessions port.SessionRepository, documents port.DocumentRepository, logger *zap.Logger) *RetentionWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &RetentionWorker{
		cfg:       cfg,
		sessions:  sessions,
		documents: documents,
		logger:    logger,
		now:       time.Now,
	}
}

// Name returns the worker name
func (w *RetentionWorker) Name() string {
	return "retention"
}

// Start schedules the sweep, running it once immediately
func (w *RetentionWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.scheduler != nil {
		return fmt.Errorf("retention worker already started")
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.cfg.Interval),
		gocron.NewTask(func() { w.Sweep(ctx) }),
		gocron.WithName("retention-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.Start()
	w.scheduler = s
	w.logger.Info("Retention worker scheduled",
		zap.Duration("interval", w.cfg.Interval),
		zap.Duration("document_max_age", w.cfg.DocumentMaxAge))
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep
func (w *RetentionWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.scheduler == nil {
		return nil
	}
	err := w.scheduler.Shutdown()
	w.scheduler = nil
	return err
}

// Sweep runs one cleanup pass. Failures are logged; the next pass retries.
func (w *RetentionWorker) Sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	now := w.now()

	removed, err := w.sessions.DeleteExpired(ctx, now)
	if err != nil {
		w.logger.Error("Failed to delete expired sessions", zap.Error(err))
	} else if removed > 0 {
		w.logger.Info("Expired sessions removed", zap.Int64("count", removed))
	}

	if w.cfg.DocumentMaxAge <= 0 {
		return
	}
	docs, err := w.documents.ListOlderThan(ctx, now.Add(-w.cfg.DocumentMaxAge))
	if err != nil {
		w.logger.Error("Failed to list old documents", zap.Error(err))
		return
	}
	for _, doc := range docs {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("Failed to remove old document",
				zap.String("path", doc.FilePath), zap.Error(err))
			continue
		}
		if err := w.documents.Delete(ctx, doc.ID); err != nil {
			w.logger.Error("Failed to delete document record",
				zap.Int64("document_id", doc.ID), zap.Error(err))
			continue
		}
		w.logger.Info("Old document removed",
			zap.Int64("logbook_id", doc.LogbookID),
			zap.String("path", doc.FilePath))
	}
}
