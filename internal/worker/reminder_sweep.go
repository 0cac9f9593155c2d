package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jwalitptl/clinicdesk/pkg/logger"
)

// UpcomingArmer arms reminders for appointments that have entered the window.
type UpcomingArmer interface {
	ArmUpcoming(ctx context.Context) (int, error)
}

// ReminderSweep periodically re-arms reminders for appointments booked more
// than a window ahead. Without it only bookings made inside the window remind.
type ReminderSweep struct {
	armer     UpcomingArmer
	interval  time.Duration
	scheduler *gocron.Scheduler
	logger    *logger.Logger
}

func NewReminderSweep(armer UpcomingArmer, interval time.Duration, log *logger.Logger) *ReminderSweep {
	return &ReminderSweep{
		armer:    armer,
		interval: interval,
		logger:   log.Component("reminder-sweep"),
	}
}

// Start runs the sweep immediately and then every interval until ctx ends or
// Stop is called.
func (w *ReminderSweep) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("reminder sweep interval must be positive, got %s", w.interval)
	}

	w.scheduler = gocron.NewScheduler(time.Local)
	if _, err := w.scheduler.Every(w.interval).Do(w.sweep, ctx); err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}
	w.scheduler.StartAsync()
	w.logger.ZL.Info().Dur("interval", w.interval).Msg("reminder sweep started")

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

func (w *ReminderSweep) Stop() {
	if w.scheduler != nil && w.scheduler.IsRunning() {
		w.scheduler.Stop()
		w.logger.ZL.Info().Msg("reminder sweep stopped")
	}
}

func (w *ReminderSweep) sweep(ctx context.Context) {
	n, err := w.armer.ArmUpcoming(ctx)
	if err != nil {
		w.logger.Error(err, "reminder sweep failed")
		return
	}
	if n > 0 {
		w.logger.ZL.Info().Int("armed", n).Msg("reminders armed by sweep")
	}
}
