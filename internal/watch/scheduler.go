package watch

import (
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// TriggerCron is the trigger reported for scheduled builds.
const TriggerCron = "cron"

// Scheduler requests periodic rebuilds.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler schedules request(TriggerCron) on a standard five field cron
// expression.
func NewScheduler(expr string, request func(trigger string)) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() { request(TriggerCron) }),
		gocron.WithName("scheduled-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("invalid watch schedule %q: %w", expr, err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting rebuild scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
