package persistence

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/estudio/backend/internal/domain/shared"
)

// newMockDB opens gorm over a sqlmock connection so driver failures can be
// injected without a live postgres.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestClienteRepositoryDriverErrorPropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormClienteRepository(db)

	driverErr := errors.New("pq: connection reset by peer")
	mock.ExpectQuery(`SELECT \* FROM "clientes"`).WillReturnError(driverErr)

	_, err := repo.FindByID(t.Context(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClienteRepositoryEmptyResultIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormClienteRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "clientes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}))

	_, err := repo.FindByID(t.Context(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngresoRepositoryDriverErrorPropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormIngresoRepository(db)

	driverErr := errors.New("pq: canceling statement due to user request")
	mock.ExpectQuery(`SELECT \* FROM "ingresos"`).WillReturnError(driverErr)

	_, err := repo.FindByID(t.Context(), uuid.New())
	assert.ErrorIs(t, err, driverErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
