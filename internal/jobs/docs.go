// Package jobs provides scheduled background tasks for the groupage platform.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the consolidation workflow.
//
// # Available Jobs
//
// 1. CutoffSweepJob - Runs every minute to lock open consolidations whose
// cutoff time has passed, so late members cannot slip into a departing unit.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(lockExpiredHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "0 * * * * *" (top of every minute).
// Cutoffs are minute-granular, so a tighter schedule buys nothing.
//
// # Error Handling
//
// Sweep errors are logged and the job waits for its next tick; the sweep is
// idempotent, an expired consolidation missed once is locked on the next run.
package jobs
