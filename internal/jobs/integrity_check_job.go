package jobs

import (
	"context"
	"log/slog"

	"bookypedia/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultIntegritySchedule runs the check once an hour.
const DefaultIntegritySchedule = "@every 1h"

// IntegrityChecker is the slice of usecases.Catalog the job needs.
type IntegrityChecker interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	CheckIntegrity(ctx context.Context) (ports.IntegrityReport, error)
}

// IntegrityCheckJob periodically counts books without an author and tags
// without a book. Orphans appear only when rows are removed outside the
// catalog's cascade.
type IntegrityCheckJob struct {
	newChecker func() IntegrityChecker
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewIntegrityCheckJob creates the job. newChecker is called once per run so
// every run owns its own transaction.
func NewIntegrityCheckJob(newChecker func() IntegrityChecker, schedule string, logger *slog.Logger) *IntegrityCheckJob {
	if schedule == "" {
		schedule = DefaultIntegritySchedule
	}

	return &IntegrityCheckJob{
		newChecker: newChecker,
		schedule:   schedule,
		cron:       cron.New(),
		logger:     logger.With("component", "integrity_check_job"),
	}
}

// Start schedules the job. An invalid schedule is returned as an error.
func (j *IntegrityCheckJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Integrity check job started", "schedule", j.schedule)
	return nil
}

// Run performs one check in its own transaction and logs the result.
func (j *IntegrityCheckJob) Run(ctx context.Context) (ports.IntegrityReport, error) {
	checker := j.newChecker()

	var report ports.IntegrityReport
	err := checker.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		report, err = checker.CheckIntegrity(ctx)
		return err
	})
	if err != nil {
		j.logger.ErrorContext(ctx, "Integrity check failed", "error", err)
		return ports.IntegrityReport{}, err
	}

	if !report.IsClean() {
		j.logger.WarnContext(ctx, "Catalog has orphaned rows",
			"orphaned_books", report.OrphanedBooks,
			"orphaned_tags", report.OrphanedTags)
	} else {
		j.logger.DebugContext(ctx, "Catalog integrity check passed")
	}
	return report, nil
}

// Stop stops scheduling and waits for a running check to finish.
func (j *IntegrityCheckJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Integrity check job stopped")
}
