package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/messaging"
)

// Sink receives reminders as they fire.
type Sink interface {
	Deliver(ctx context.Context, r model.Reminder) error
}

// LogSink writes each reminder to the application log.
type LogSink struct {
	logger *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{logger: log.Component("reminder")}
}

func (s *LogSink) Deliver(_ context.Context, r model.Reminder) error {
	s.logger.ZL.Info().
		Str("appointment_id", r.AppointmentID).
		Str("patient_id", r.PatientID).
		Str("doctor", r.Doctor).
		Time("datetime", r.Datetime).
		Msg(r.Text())
	return nil
}

// Inbox keeps fired reminders until the UI collects them. It holds at most
// capacity entries and drops the oldest beyond that.
type Inbox struct {
	mu       sync.Mutex
	items    []model.Reminder
	capacity int
}

func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = 100
	}
	return &Inbox{capacity: capacity}
}

func (i *Inbox) Deliver(_ context.Context, r model.Reminder) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, r)
	if over := len(i.items) - i.capacity; over > 0 {
		i.items = append([]model.Reminder(nil), i.items[over:]...)
	}
	return nil
}

// Take returns the pending reminders oldest first and empties the inbox.
func (i *Inbox) Take() []model.Reminder {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	if out == nil {
		out = []model.Reminder{}
	}
	return out
}

// Channel reminders are published on.
const Channel = "clinic:reminders"

const messageType = "appointment.reminder"

// BrokerSink publishes reminders for other processes to pick up.
type BrokerSink struct {
	broker  messaging.Broker
	channel string
}

func NewBrokerSink(broker messaging.Broker, channel string) *BrokerSink {
	if channel == "" {
		channel = Channel
	}
	return &BrokerSink{broker: broker, channel: channel}
}

func (s *BrokerSink) Deliver(ctx context.Context, r model.Reminder) error {
	msg := messaging.Message{Type: messageType, Payload: r}
	if err := s.broker.Publish(ctx, s.channel, msg); err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}
	return nil
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Dialer sends a composed message; *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailSink emails each reminder to a fixed list of front-desk addresses.
type MailSink struct {
	dialer Dialer
	from   string
	to     []string
}

func NewMailSink(cfg MailConfig) *MailSink {
	return NewMailSinkWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, cfg.To)
}

func NewMailSinkWithDialer(d Dialer, from string, to []string) *MailSink {
	return &MailSink{dialer: d, from: from, to: to}
}

func (s *MailSink) Deliver(_ context.Context, r model.Reminder) error {
	if len(s.to) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", fmt.Sprintf("Appointment reminder: %s", r.Datetime.Format("2006-01-02 15:04")))
	m.SetBody("text/plain", r.Text())
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder mail: %w", err)
	}
	return nil
}

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (ms MultiSink) Deliver(ctx context.Context, r model.Reminder) error {
	var errs []error
	for _, s := range ms {
		if err := s.Deliver(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
