// Package storage is the persistent key/value layer every repository builds
// on. Values are JSON documents; a key that is missing or fails to parse is
// reported as absent rather than as an error.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
)

// ErrAbsent is returned by a Backend when the key has never been written.
var ErrAbsent = errors.New("storage: key absent")

// Collection keys in the durable store.
const (
	KeyUsers        = "clinic_users"
	KeyPatients     = "clinic_patients"
	KeyMedications  = "clinic_meds"
	KeyAppointments = "clinic_appts"
	KeyFinance      = "clinic_fin"
	KeyLanguage     = "clinic_lang"
)

// Backend is raw durable text storage.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Store serializes structured values to and from a Backend.
type Store struct {
	backend Backend
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewStore(backend Backend, log *logger.Logger, m *metrics.Metrics) *Store {
	return &Store{
		backend: backend,
		logger:  log.Component("store"),
		metrics: m,
	}
}

// Lookup reports how the value under key was found.
type Lookup int

const (
	Found Lookup = iota
	Absent
	Corrupt
)

// Get decodes the value under key into dst. It returns false when the key is
// absent or holds something that does not decode into dst.
func (s *Store) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	state, err := s.Lookup(ctx, key, dst)
	return state == Found, err
}

// Lookup decodes the value under key into dst and says whether it was found,
// absent, or corrupt. A corrupt value is logged and counted; only backend
// failures are returned as errors.
func (s *Store) Lookup(ctx context.Context, key string, dst interface{}) (Lookup, error) {
	start := time.Now()
	raw, err := s.backend.Get(ctx, key)
	s.metrics.StoreLatency.WithLabelValues("get").Observe(time.Since(start).Seconds())

	if errors.Is(err, ErrAbsent) {
		s.metrics.StoreOperations.WithLabelValues("get", "absent").Inc()
		return Absent, nil
	}
	if err != nil {
		s.metrics.StoreOperations.WithLabelValues("get", "error").Inc()
		return Absent, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.metrics.StoreOperations.WithLabelValues("get", "corrupt").Inc()
		s.metrics.CorruptCollection.WithLabelValues(key).Inc()
		s.logger.ZL.Warn().
			Err(apperrors.StorageCorrupt(key, err)).
			Str("key", key).
			Int("bytes", len(raw)).
			Msg("stored value is malformed, treating it as empty")
		return Corrupt, nil
	}

	s.metrics.StoreOperations.WithLabelValues("get", "ok").Inc()
	return Found, nil
}

// Set encodes v and writes it under key in one backend call.
func (s *Store) Set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	start := time.Now()
	err = s.backend.Set(ctx, key, string(data))
	s.metrics.StoreLatency.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.StoreOperations.WithLabelValues("set", "error").Inc()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.metrics.StoreOperations.WithLabelValues("set", "ok").Inc()
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}
