package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/storage"
	"github.com/jwalitptl/clinicdesk/pkg/logger"
	"github.com/jwalitptl/clinicdesk/pkg/metrics"
)

func setupTestBackend(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS clinic_kv").WillReturnResult(sqlmock.NewResult(0, 0))

	b, err := NewBackend(context.Background(), sqlx.NewDb(db, "sqlmock"))
	require.NoError(t, err)
	return b, mock
}

func TestBackend_Get(t *testing.T) {
	b, mock := setupTestBackend(t)

	mock.ExpectQuery(`SELECT value FROM clinic_kv WHERE key = \$1`).
		WithArgs("clinic_meds").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"m_1"}]`))

	v, err := b.Get(context.Background(), "clinic_meds")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"m_1"}]`, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_GetAbsent(t *testing.T) {
	b, mock := setupTestBackend(t)

	mock.ExpectQuery(`SELECT value FROM clinic_kv`).
		WithArgs("clinic_fin").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := b.Get(context.Background(), "clinic_fin")
	assert.ErrorIs(t, err, storage.ErrAbsent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_SetAndDelete(t *testing.T) {
	b, mock := setupTestBackend(t)

	mock.ExpectExec(`INSERT INTO clinic_kv`).
		WithArgs("clinic_lang", `"en"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM clinic_kv WHERE key = \$1`).
		WithArgs("clinic_lang").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, b.Set(context.Background(), "clinic_lang", `"en"`))
	require.NoError(t, b.Delete(context.Background(), "clinic_lang"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_SetError(t *testing.T) {
	b, mock := setupTestBackend(t)

	mock.ExpectExec(`INSERT INTO clinic_kv`).WillReturnError(errors.New("disk full"))

	err := b.Set(context.Background(), "clinic_users", "[]")
	assert.ErrorContains(t, err, "disk full")
}

func TestBackend_ThroughStore(t *testing.T) {
	b, mock := setupTestBackend(t)
	store := storage.NewStore(b, logger.Nop(), metrics.NewNop())

	mock.ExpectQuery(`SELECT value FROM clinic_kv`).
		WithArgs("clinic_lang").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`"fr"`))

	var lang string
	ok, err := store.Get(context.Background(), "clinic_lang", &lang)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fr", lang)
}
