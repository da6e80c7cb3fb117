package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	integrityCheckJob *IntegrityCheckJob
}

// NewJobManager creates a new job manager with all required jobs.
// newChecker supplies a fresh catalog for every integrity check run.
func NewJobManager(newChecker func() IntegrityChecker, integritySchedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		integrityCheckJob: NewIntegrityCheckJob(newChecker, integritySchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.integrityCheckJob.Start(); err != nil {
		return fmt.Errorf("failed to start integrity check job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.integrityCheckJob.Stop()
}
