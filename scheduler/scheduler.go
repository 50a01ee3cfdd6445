package scheduler

import (
	"context"
	"os"

	"github.com/Dafi-web/abunearegawi/utils"

	"github.com/robfig/cron/v3"
)

const defaultReminderSchedule = "0 9 * * *"

// Scheduler owns the cron runner for the daily payment reminder job. It is
// started from main once the database connection is up.
type Scheduler struct {
	cron *cron.Cron
	job  *ReminderJob
}

func NewScheduler() *Scheduler {
	cronLogger := cron.PrintfLogger(utils.Logger)
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron: c,
		job:  NewReminderJob(),
	}
}

// Start registers the reminder job and starts the cron runner. The schedule
// can be overridden with REMINDER_CRON, mainly for staging environments.
func (s *Scheduler) Start() {
	schedule := os.Getenv("REMINDER_CRON")
	if schedule == "" {
		schedule = defaultReminderSchedule
	}

	if _, err := s.cron.AddJob(schedule, s.job); err != nil {
		utils.LogError(err, "Failed to schedule the payment reminder job")
		return
	}

	s.cron.Start()
	utils.LogSuccess("Payment reminder job scheduled (" + schedule + ")")
}

// Stop stops the cron runner; the returned context is done once any running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
