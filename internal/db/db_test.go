package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return gdb, mock
}

func TestSeedCategories_IgnoresExisting(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "categories" .*ON CONFLICT \("name"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	require.NoError(t, seedCategories(context.Background(), gdb))
}

func TestSeedCategories_Error(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "categories"`).WillReturnError(assert.AnError)

	err := seedCategories(context.Background(), gdb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed categories")
}

func TestClose(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectClose()

	require.NoError(t, Close(gdb))
}
