package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/messaging"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode reads a message published by BrokerSink. ok is false for messages
// of any other type.
func Decode(data []byte) (r model.Reminder, ok bool, err error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return r, false, fmt.Errorf("failed to decode message: %w", err)
	}
	if env.Type != messageType {
		return r, false, nil
	}
	if err := json.Unmarshal(env.Payload, &r); err != nil {
		return r, false, fmt.Errorf("failed to decode reminder: %w", err)
	}
	return r, true, nil
}

// Relay hands every reminder published on channel to sink until ctx ends.
// Undecodable messages and delivery failures are logged and skipped.
func Relay(ctx context.Context, broker messaging.Broker, channel string, sink Sink, log *logger.Logger) error {
	if channel == "" {
		channel = Channel
	}
	log = log.Component("relay")

	msgs, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	log.ZL.Info().Str("channel", channel).Msg("relaying reminders")

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, open := <-msgs:
			if !open {
				return nil
			}
			r, ok, err := Decode(data)
			if err != nil {
				log.ZL.Warn().Err(err).Msg("skipping message")
				continue
			}
			if !ok {
				continue
			}
			if err := sink.Deliver(ctx, r); err != nil {
				log.ZL.Error().Err(err).Str("appointment_id", r.AppointmentID).Msg("reminder delivery failed")
			}
		}
	}
}
