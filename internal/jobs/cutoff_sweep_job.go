package jobs

import (
	"context"
	"log/slog"
	"time"

	"groupage/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// sweepActor is the identity expired consolidations are locked under.
const sweepActor = "cutoff-sweep"

// CutoffSweepJob locks open consolidations whose cutoff time has passed.
// Runs every minute; a consolidation missed by one sweep is caught by the next.
type CutoffSweepJob struct {
	handler commands.LockExpiredConsolidationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewCutoffSweepJob creates the cutoff sweep job.
// Uses LockExpiredConsolidationsCommandHandler to lock expired consolidations.
func NewCutoffSweepJob(handler commands.LockExpiredConsolidationsCommandHandler, logger *slog.Logger) *CutoffSweepJob {
	return &CutoffSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "cutoff_sweep_job"),
	}
}

// Start begins the cutoff sweep job to run every minute.
func (j *CutoffSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewLockExpiredConsolidationsCommand(time.Now().UTC(), sweepActor)
		if err != nil {
			j.logger.ErrorContext(ctx, "Cutoff sweep command construction failed", "error", err)
			return
		}

		locked, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Cutoff sweep failed", "error", err)
			return
		}
		if locked > 0 {
			j.logger.InfoContext(ctx, "Cutoff sweep locked expired consolidations", "locked", locked)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cutoff sweep job started (running every minute)")
	return nil
}

// Stop stops the cutoff sweep job.
func (j *CutoffSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Cutoff sweep job stopped")
}
