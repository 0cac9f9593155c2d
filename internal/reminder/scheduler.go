// Package reminder fires a one-shot notice for appointments that start
// within the reminder window. Armed timers live only in memory.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
)

// DefaultWindow is how far ahead an appointment may be to get a reminder.
const DefaultWindow = 24 * time.Hour

type State string

const (
	StateIdle      State = "idle"
	StateArmed     State = "armed"
	StateFired     State = "fired"
	StateDiscarded State = "discarded"
)

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Clock is the scheduler's source of time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock.
func SystemClock() Clock { return systemClock{} }

type entry struct {
	state State
	timer Timer
}

type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	window  time.Duration
	sink    Sink
	logger  *logger.Logger
	metrics *metrics.Metrics
	entries map[string]*entry
	stopped bool
}

func NewScheduler(clock Clock, window time.Duration, sink Sink, log *logger.Logger, m *metrics.Metrics) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Scheduler{
		clock:   clock,
		window:  window,
		sink:    sink,
		logger:  log.Component("reminder"),
		metrics: m,
		entries: make(map[string]*entry),
	}
}

// Arm starts a timer for a scheduled appointment whose start is strictly
// between now and now+window. It reports whether a timer was started; an
// appointment that already has one, or had one, is left alone.
func (s *Scheduler) Arm(a model.Appointment) bool {
	if a.Status != model.AppointmentStatusScheduled {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if _, seen := s.entries[a.ID]; seen {
		return false
	}

	delay := a.Datetime.Sub(s.clock.Now())
	if delay <= 0 || delay >= s.window {
		return false
	}

	e := &entry{state: StateArmed}
	e.timer = s.clock.AfterFunc(delay, func() { s.fire(a) })
	s.entries[a.ID] = e

	s.metrics.Reminders.WithLabelValues(string(StateArmed)).Inc()
	s.metrics.RemindersArmed.Inc()
	s.logger.ZL.Debug().Str("appointment_id", a.ID).Dur("delay", delay).Msg("reminder armed")
	return true
}

func (s *Scheduler) fire(a model.Appointment) {
	s.mu.Lock()
	e, ok := s.entries[a.ID]
	if !ok || e.state != StateArmed {
		s.mu.Unlock()
		return
	}
	e.state = StateFired
	e.timer = nil
	s.mu.Unlock()

	s.metrics.Reminders.WithLabelValues(string(StateFired)).Inc()
	s.metrics.RemindersArmed.Dec()

	r := model.NewReminder(a)
	r.FiredAt = s.clock.Now()
	if err := s.sink.Deliver(context.Background(), r); err != nil {
		s.logger.Error(err, "failed to deliver reminder", "appointment_id", a.ID)
	}
}

// Discard cancels an armed reminder. It reports whether one was armed.
func (s *Scheduler) Discard(appointmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discardLocked(appointmentID)
}

func (s *Scheduler) discardLocked(id string) bool {
	e, ok := s.entries[id]
	if !ok || e.state != StateArmed {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.state = StateDiscarded
	e.timer = nil

	s.metrics.Reminders.WithLabelValues(string(StateDiscarded)).Inc()
	s.metrics.RemindersArmed.Dec()
	s.logger.ZL.Debug().Str("appointment_id", id).Msg("reminder discarded")
	return true
}

// Stop discards every armed reminder and refuses new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.entries {
		s.discardLocked(id)
	}
	s.stopped = true
}

func (s *Scheduler) State(appointmentID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[appointmentID]; ok {
		return e.state
	}
	return StateIdle
}

func (s *Scheduler) Window() time.Duration {
	return s.window
}
