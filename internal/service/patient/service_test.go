package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
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

func newService(t *testing.T) (*Service, repository.AppointmentRepository) {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend(), logger.Nop(), metrics.NewNop())
	appts := collection.NewAppointmentRepository(store)
	svc := NewService(collection.NewPatientRepository(store), appts, validator.New(), logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC) }
	return svc, appts
}

func TestAddPatient_Validation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddPatient(context.Background(), &model.CreatePatientRequest{Name: "  ", Phone: "0555"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.AddPatient(context.Background(), &model.CreatePatientRequest{Name: "Ali"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAddPatient_DerivesAge(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.AddPatient(context.Background(), &model.CreatePatientRequest{Name: "Ali", Phone: "0555", BirthDate: "1990-10-17"})
	require.NoError(t, err)
	assert.Equal(t, "35", p.Age)

	given, err := svc.AddPatient(context.Background(), &model.CreatePatientRequest{Name: "Omar", Phone: "0666", BirthDate: "1990-10-17", Age: "40"})
	require.NoError(t, err)
	assert.Equal(t, "40", given.Age)
}

func TestAddPatient_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.AddPatient(ctx, &model.CreatePatientRequest{Name: "Ali", Phone: "0555"})
	require.NoError(t, err)
	_, err = svc.AddPatient(ctx, &model.CreatePatientRequest{Name: "ali", Phone: "0999"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePatient)
}

func TestListPatients_Search(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, req := range []model.CreatePatientRequest{
		{Name: "Amina", Phone: "0611"},
		{Name: "Brahim", Phone: "0722"},
	} {
		req := req
		_, err := svc.AddPatient(ctx, &req)
		require.NoError(t, err)
	}

	all, err := svc.ListPatients(ctx, " ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := svc.ListPatients(ctx, "072")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Brahim", hits[0].Name)
}

func TestUpdatePatient(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p, err := svc.AddPatient(ctx, &model.CreatePatientRequest{Name: "Ali", Phone: "0555"})
	require.NoError(t, err)

	dob := "2000-01-01"
	updated, err := svc.UpdatePatient(ctx, p.ID, &model.UpdatePatientRequest{BirthDate: &dob})
	require.NoError(t, err)
	assert.Equal(t, "26", updated.Age)

	empty := ""
	_, err = svc.UpdatePatient(ctx, p.ID, &model.UpdatePatientRequest{Phone: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.UpdatePatient(ctx, "p_missing", &model.UpdatePatientRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeletePatient_KeepsAppointments(t *testing.T) {
	ctx := context.Background()
	svc, appts := newService(t)
	p, err := svc.AddPatient(ctx, &model.CreatePatientRequest{Name: "Ali", Phone: "0555"})
	require.NoError(t, err)
	require.NoError(t, appts.Create(ctx, &model.Appointment{PatientID: p.ID}))

	require.NoError(t, svc.DeletePatient(ctx, p.ID))

	_, err = svc.GetPatient(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	left, err := appts.ListByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
