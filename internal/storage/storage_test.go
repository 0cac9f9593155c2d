package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
)

func newTestStore(t *testing.T, backend Backend) (*Store, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewNop()
	return NewStore(backend, logger.Nop(), m), m
}

func backends(t *testing.T) map[string]Backend {
	fb, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   fb,
	}
}

func TestStore_RoundTripAllShapes(t *testing.T) {
	ctx := context.Background()
	when := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store, _ := newTestStore(t, backend)

			users := []model.User{{ID: "u_1", Name: "nurse", Pass: "pw", Role: model.UserTypeDoctor}}
			patients := []model.Patient{{ID: "p_1", Name: "Ali", Phone: "0555", CreatedAt: when}}
			appts := []model.Appointment{{ID: "ap_1", PatientID: "p_1", Doctor: "doctor", Datetime: when, Status: model.AppointmentStatusScheduled, CreatedAt: when}}
			meds := []model.Medication{{ID: "m_1", Name: "Panadol", Stock: 12, Expiry: "2027-01"}}
			fin := []model.FinanceRecord{{ID: "f_1", Description: "visit", Amount: 150.5, Type: model.FinanceTypeIncome, When: when}}

			require.NoError(t, store.Set(ctx, KeyUsers, users))
			require.NoError(t, store.Set(ctx, KeyPatients, patients))
			require.NoError(t, store.Set(ctx, KeyAppointments, appts))
			require.NoError(t, store.Set(ctx, KeyMedications, meds))
			require.NoError(t, store.Set(ctx, KeyFinance, fin))

			var gotUsers []model.User
			var gotPatients []model.Patient
			var gotAppts []model.Appointment
			var gotMeds []model.Medication
			var gotFin []model.FinanceRecord

			for key, dst := range map[string]interface{}{
				KeyUsers:        &gotUsers,
				KeyPatients:     &gotPatients,
				KeyAppointments: &gotAppts,
				KeyMedications:  &gotMeds,
				KeyFinance:      &gotFin,
			} {
				ok, err := store.Get(ctx, key, dst)
				require.NoError(t, err)
				assert.True(t, ok, key)
			}

			assert.Equal(t, users, gotUsers)
			assert.Equal(t, patients, gotPatients)
			assert.Equal(t, appts, gotAppts)
			assert.Equal(t, meds, gotMeds)
			assert.Equal(t, fin, gotFin)
		})
	}
}

func TestStore_AbsentKey(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryBackend())

	var v []model.Patient
	ok, err := store.Get(context.Background(), KeyPatients, &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CorruptValueReportsAbsent(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, KeyMedications, `[{"id":"m_1",`))
	store, m := newTestStore(t, backend)

	var v []model.Medication
	state, err := store.Lookup(ctx, KeyMedications, &v)
	require.NoError(t, err)
	assert.Equal(t, Corrupt, state)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CorruptCollection.WithLabelValues(KeyMedications)))
}

func TestCollection_AbsentIsSeededAndWritten(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store, _ := newTestStore(t, backend)
	users := NewCollection(store, KeyUsers, model.DefaultUsers)

	got, err := users.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "admin", got[0].Name)
	assert.Equal(t, "doctor", got[1].Name)

	raw, err := backend.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.Contains(t, raw, `"u_admin"`)
}

func TestCollection_AbsentWithoutSeedIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store, _ := newTestStore(t, backend)
	fin := NewCollection[model.FinanceRecord](store, KeyFinance, nil)

	got, err := fin.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	raw, err := backend.Get(ctx, KeyFinance)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestCollection_CorruptLoadsEmptyAndIsNotRewritten(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, KeyPatients, "not json"))
	store, _ := newTestStore(t, backend)
	patients := NewCollection[model.Patient](store, KeyPatients, nil)

	got, err := patients.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := backend.Get(ctx, KeyPatients)
	require.NoError(t, err)
	assert.Equal(t, "not json", raw)

	// The next mutation replaces it.
	require.NoError(t, patients.Mutate(ctx, func(ps []model.Patient) ([]model.Patient, error) {
		return append(ps, model.Patient{ID: "p_1", Name: "Ali", Phone: "0555"}), nil
	}))
	got, err = patients.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCollection_MutateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryBackend())
	meds := NewCollection[model.Medication](store, KeyMedications, nil)

	require.NoError(t, meds.Mutate(ctx, func(ms []model.Medication) ([]model.Medication, error) {
		return append(ms, model.Medication{ID: "m_1", Name: "X", Stock: 1}), nil
	}))

	err := meds.Mutate(ctx, func(ms []model.Medication) ([]model.Medication, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := meds.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCollection_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryBackend())
	fin := NewCollection[model.FinanceRecord](store, KeyFinance, nil)

	for _, id := range []string{"f_c", "f_a", "f_b"} {
		id := id
		require.NoError(t, fin.Mutate(ctx, func(rs []model.FinanceRecord) ([]model.FinanceRecord, error) {
			return append(rs, model.FinanceRecord{ID: id, Amount: 1}), nil
		}))
	}

	got, err := fin.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "f_c", got[0].ID)
	assert.Equal(t, "f_a", got[1].ID)
	assert.Equal(t, "f_b", got[2].ID)
}

func TestCollection_ConcurrentMutationsAllPersist(t *testing.T) {
	const writers = 50
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store, _ := newTestStore(t, backend)
			fin := NewCollection[model.FinanceRecord](store, KeyFinance, nil)

			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs <- fin.Mutate(ctx, func(rs []model.FinanceRecord) ([]model.FinanceRecord, error) {
						return append(rs, model.FinanceRecord{ID: fmt.Sprintf("f_%d", i), Amount: 1}), nil
					})
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			got, err := fin.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got, writers)
			seen := make(map[string]bool, writers)
			for _, r := range got {
				seen[r.ID] = true
			}
			assert.Len(t, seen, writers)
		})
	}
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fb, err := NewFileBackend(dir)
	require.NoError(t, err)

	_, err = fb.Get(ctx, KeyLanguage)
	assert.ErrorIs(t, err, ErrAbsent)

	require.NoError(t, fb.Set(ctx, KeyLanguage, `"en"`))
	v, err := fb.Get(ctx, KeyLanguage)
	require.NoError(t, err)
	assert.Equal(t, `"en"`, v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyLanguage+".json", entries[0].Name())

	require.NoError(t, fb.Delete(ctx, KeyLanguage))
	require.NoError(t, fb.Delete(ctx, KeyLanguage))
	_, err = os.Stat(filepath.Join(dir, KeyLanguage+".json"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, fb.Set(ctx, "../escape", "x"))
}
