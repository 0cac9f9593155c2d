package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/model"
	"github.com/jwalitptl/clinicdesk/internal/repository"
	"github.com/jwalitptl/clinicdesk/internal/repository/collection"
	"github.com/jwalitptl/clinicdesk/internal/storage"
	apperrors "github.com/jwalitptl/clinicdesk/pkg/errors"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
	"github.com/jwalitptl/clinicdesk/pkg/validator"
)

type mockReminders struct {
	mock.Mock
}

func (m *mockReminders) Arm(a model.Appointment) bool {
	return m.Called(a.ID).Bool(0)
}

func (m *mockReminders) Discard(id string) bool {
	return m.Called(id).Bool(0)
}

type fixture struct {
	svc       *Service
	patients  repository.PatientRepository
	reminders *mockReminders
	patient   *model.Patient
}

func newFixture(t *testing.T, cfg Config) fixture {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend(), logger.Nop(), metrics.NewNop())
	patients := collection.NewPatientRepository(store)
	p := &model.Patient{Name: "Ali", Phone: "0555"}
	require.NoError(t, patients.Create(context.Background(), p))

	rem := new(mockReminders)
	cfg.Location = time.UTC
	svc := NewService(collection.NewAppointmentRepository(store), patients, rem, validator.New(), cfg, logger.Nop())
	return fixture{svc: svc, patients: patients, reminders: rem, patient: p}
}

func TestBookAppointment(t *testing.T) {
	f := newFixture(t, Config{})
	f.reminders.On("Arm", mock.Anything).Return(true).Once()

	appt, err := f.svc.BookAppointment(context.Background(), &model.BookAppointmentRequest{
		PatientID: f.patient.ID,
		Datetime:  "2026-10-17T09:30",
		Doctor:    "doctor",
		Reason:    "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC), appt.Datetime)
	f.reminders.AssertCalled(t, "Arm", appt.ID)
}

func TestBookAppointment_Rejected(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	_, err := f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: "p_unknown", Datetime: "2026-10-17T09:30"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID, Datetime: "tomorrow"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	f.reminders.AssertNotCalled(t, "Arm", mock.Anything)
	list, err := f.svc.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCancelAppointment_Twice(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	f.reminders.On("Arm", mock.Anything).Return(true)

	appt, err := f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID, Datetime: "2026-10-17 09:30"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := f.svc.CancelAppointment(ctx, appt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusCancelled, got.Status)
	}
	f.reminders.AssertNotCalled(t, "Discard", mock.Anything)

	_, err = f.svc.CancelAppointment(ctx, "ap_unknown")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCancelAppointment_DiscardOnCancel(t *testing.T) {
	f := newFixture(t, Config{DiscardOnCancel: true})
	ctx := context.Background()
	f.reminders.On("Arm", mock.Anything).Return(true)

	appt, err := f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID, Datetime: "2026-10-17T09:30:00Z"})
	require.NoError(t, err)

	f.reminders.On("Discard", appt.ID).Return(true).Once()
	_, err = f.svc.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)
	f.reminders.AssertExpectations(t)
}

func TestListAppointments_JoinsPatient(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	f.reminders.On("Arm", mock.Anything).Return(false)

	_, err := f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID, Datetime: "2026-11-01T10:00"})
	require.NoError(t, err)

	list, err := f.svc.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ali", list[0].PatientName)
	assert.Equal(t, "0555", list[0].PatientPhone)

	require.NoError(t, f.patients.Delete(ctx, f.patient.ID))
	list, err = f.svc.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PatientName)
}

func TestArmUpcoming(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	f.reminders.On("Arm", mock.Anything).Return(false).Twice()

	first, err := f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID, Datetime: "2026-10-17T09:00"})
	require.NoError(t, err)
	second, err := f.svc.BookAppointment(ctx, &model.BookAppointmentRequest{PatientID: f.patient.ID, Datetime: "2026-10-18T09:00"})
	require.NoError(t, err)
	_, err = f.svc.CancelAppointment(ctx, second.ID)
	require.NoError(t, err)

	f.reminders.On("Arm", mock.Anything).Return(true)
	n, err := f.svc.ArmUpcoming(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.reminders.AssertNumberOfCalls(t, "Arm", 3)
	f.reminders.AssertCalled(t, "Arm", first.ID)
}
