// Package jobs provides scheduled background tasks for the catalog.
//
// Jobs are cron-based, using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. IntegrityCheckJob - counts books whose author is gone and tags whose book
// is gone, and logs the counts at warn level when they are not zero
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(func() jobs.IntegrityChecker {
//		return root.NewCatalog()
//	}, cfg.IntegrityCheckSchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule accepts any robfig/cron expression, including descriptors such
// as "@every 30m". It defaults to DefaultIntegritySchedule.
//
// # Error Handling
//
// A failed run is logged and the job keeps its schedule. A schedule that does
// not parse makes StartAll fail.
package jobs
